package settings

import (
	"fmt"

	"github.com/gosuri/uitable"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/config"
)

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	tbl := uitable.New()
	tbl.AddRow("KEY", "VALUE", "SOURCE")
	for _, e := range ctx.Config.Entries() {
		tbl.AddRow(e.Key, e.Value, string(e.Source))
	}
	ctx.Println(tbl)
	ctx.Printf("\nConfig file: %s\nDatabase:    %s\n", ctx.ConfigFile, ctx.Store.Path())
	return nil
}

// SetCmd stores a value in the settings table, or in the config file with
// --file. Some keys only exist in the config file.
type SetCmd struct {
	Key   string `arg:"" help:"Setting key."`
	Value string `arg:"" help:"New value."`
	File  bool   `help:"Write to the config file instead of the local database."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	if c.File || !isSettingKey(c.Key) {
		return c.writeFile(ctx)
	}

	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := config.ApplySetting(&settings, c.Key, c.Value); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(ctx.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("Set %s in the local database.\n", c.Key)
	return nil
}

func (c *SetCmd) writeFile(ctx *cli.Context) error {
	f, err := config.LoadFile(ctx.ConfigFile)
	if err != nil {
		return err
	}
	if err := config.ApplyFileKey(&f, c.Key, c.Value); err != nil {
		return err
	}
	if err := config.SaveFile(ctx.ConfigFile, f); err != nil {
		return err
	}
	ctx.Printf("Set %s in %s.\n", c.Key, ctx.ConfigFile)
	return nil
}

func isSettingKey(key string) bool {
	for _, k := range config.SettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}
