package quill

import (
	"time"

	"github.com/lestrrat-go/strftime"
)

// registerClockBuiltins installs the `clock` command. `clock format` uses
// github.com/lestrrat-go/strftime so format strings follow familiar
// strftime %-directives rather than inventing a bespoke mini-language.
func registerClockBuiltins(in *Interp) {
	in.cmds.register("clock", cmdClock)
}

func cmdClock(in *Interp, name string, args []*Obj) outcome {
	if len(args) < 1 {
		return errorf("wrong # args: should be \"clock subcommand ?arg ...?\"")
	}
	switch args[0].String() {
	case "seconds":
		return ok(NewIntObj(time.Now().Unix()))
	case "milliseconds":
		return ok(NewIntObj(time.Now().UnixMilli()))
	case "format":
		if len(args) < 2 {
			return errorf("wrong # args: should be \"clock format clockValue ?-format string?\"")
		}
		secs, err := AsInt(args[1])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		layout := "%Y-%m-%d %H:%M:%S"
		for i := 2; i+1 < len(args); i += 2 {
			if args[i].String() == "-format" {
				layout = args[i+1].String()
			}
		}
		f, err := strftime.New(layout)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		t := time.Unix(secs, 0).UTC()
		return ok(NewStringObj(f.FormatString(t)))
	case "scan":
		if len(args) != 2 {
			return errorf("wrong # args: should be \"clock scan dateString\"")
		}
		t, err := time.Parse(time.RFC3339, args[1].String())
		if err != nil {
			t, err = time.Parse("2006-01-02 15:04:05", args[1].String())
		}
		if err != nil {
			return errorf("unable to parse date string %q", args[1].String())
		}
		return ok(NewIntObj(t.Unix()))
	case "add":
		if len(args) != 4 {
			return errorf("wrong # args: should be \"clock add clockValue count unit\"")
		}
		secs, err := AsInt(args[1])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		count, err := AsInt(args[2])
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		unit := args[3].String()
		d, err := clockUnitDuration(unit)
		if err != nil {
			return errOutcome(newScriptError(err.Error()))
		}
		return ok(NewIntObj(secs + count*int64(d.Seconds())))
	default:
		return errorf("unknown clock subcommand %q", args[0].String())
	}
}

func clockUnitDuration(unit string) (time.Duration, error) {
	switch unit {
	case "seconds", "second":
		return time.Second, nil
	case "minutes", "minute":
		return time.Minute, nil
	case "hours", "hour":
		return time.Hour, nil
	case "days", "day":
		return 24 * time.Hour, nil
	case "weeks", "week":
		return 7 * 24 * time.Hour, nil
	default:
		return 0, parseErrorf("unknown clock unit %q", unit)
	}
}
