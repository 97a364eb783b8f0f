package system

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/MarkBevz50/focusflow/internal/cli"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/keyring"
	"github.com/MarkBevz50/focusflow/internal/migration"
	"github.com/MarkBevz50/focusflow/internal/storage"
)

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkip
)

type doctor struct {
	ctx      *cli.Context
	hasError bool
}

func (d *doctor) report(name string, res checkResult, detail string) {
	w := d.ctx.Out
	switch res {
	case checkOK:
		color.New(color.FgGreen).Fprint(w, "✓ ")
		fmt.Fprintf(w, "%s: OK\n", name)
	case checkWarn:
		color.New(color.FgYellow).Fprint(w, "⚠ ")
		fmt.Fprintf(w, "%s: WARNING\n", name)
	case checkFail:
		color.New(color.FgRed).Fprint(w, "❌ ")
		fmt.Fprintf(w, "%s: FAIL\n", name)
		d.hasError = true
	case checkSkip:
		color.New(color.Faint).Fprint(w, "⊘ ")
		fmt.Fprintf(w, "%s: SKIPPED\n", name)
	}
	if detail != "" {
		fmt.Fprintf(w, "   %s\n", detail)
	}
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	d := &doctor{ctx: ctx}

	// Check 1: config file parses and resolves
	if ctx.ConfigErr != nil {
		d.report("Config file", checkFail, ctx.ConfigErr.Error())
	} else {
		d.report("Config file", checkOK, ctx.ConfigFile)
	}

	// Check 2: database reachable
	dbReachable := false
	if err := checkDBReachable(ctx); err != nil {
		detail := "Error: " + err.Error()
		if errors.Is(err, storage.ErrNotInitialized) {
			detail = fmt.Sprintf("no database at %s; any other focusflow command creates it", ctx.Store.Path())
		}
		d.report("Database reachable", checkFail, detail)
	} else {
		d.report("Database reachable", checkOK, "")
		dbReachable = true
	}

	// Check 3: schema up to date
	if dbReachable {
		status, err := ctx.Store.SchemaStatus(ctx.Context())
		switch {
		case err != nil:
			d.report("Schema version", checkFail, "Error: "+err.Error())
		case status.Current > status.Latest:
			d.report("Schema version", checkFail, migration.ErrSchemaTooNew.Error())
		case status.Pending() > 0:
			d.report("Schema version", checkFail, fmt.Sprintf("%d migration(s) pending", status.Pending()))
		default:
			d.report("Schema version", checkOK, "")
		}
	} else {
		d.report("Schema version", checkSkip, "database not reachable")
	}

	// Check 4: token storage
	switch backend := ctx.Config.TokenBackend; {
	case backend == constants.TokenBackendLocal:
		d.report("Token storage", checkOK, "local database")
	case keyring.IsAvailable():
		d.report("Token storage", checkOK, "OS keyring")
	case backend == constants.TokenBackendKeyring:
		d.report("Token storage", checkFail, keyring.ErrKeyringUnavailable.Error())
	default:
		d.report("Token storage", checkWarn, "OS keyring unavailable; the token is kept in the local database")
	}

	// Check 5: API reachable
	apiReachable := false
	if err := ctx.API.Ping(ctx.Context()); err != nil {
		d.report("API reachable", checkFail, fmt.Sprintf("%s: %v", ctx.API.BaseURL(), err))
	} else {
		d.report("API reachable", checkOK, ctx.API.BaseURL())
		apiReachable = true
	}

	// Check 6: session (warning only)
	switch {
	case !apiReachable:
		d.report("Session", checkSkip, "API not reachable")
	case ctx.RestoreSession() != nil:
		d.report("Session", checkWarn, "could not read the saved session")
	case !ctx.Session.IsAuthenticated():
		d.report("Session", checkWarn, "not logged in")
	default:
		detail := ""
		if p, ok := ctx.Session.Profile(); ok {
			detail = p.Email
		}
		d.report("Session", checkOK, detail)
	}

	ctx.Println()
	if d.hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if ctx.StoreErr != nil {
		return ctx.StoreErr
	}
	return ctx.Store.Ping(ctx.Context())
}
