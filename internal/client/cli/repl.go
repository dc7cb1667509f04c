package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Available commands:
  show                  draw the profile
  edit | save | toggle  enter edit mode, save edits, or press the edit/save button
  name <text>           set the display name
  wallet <text>         set the wallet address
  rate <number>         set the hourly rate in SOL (empty clears it)
  day <weekday>         select or deselect a weekday
  from <HH:MM AM|PM>    set the start of the time slot
  to <HH:MM AM|PM>      set the end of the time slot
  tag add|rm <text>     add or remove a tag
  tags [prefix]         list tag suggestions
  diff                  list pending edits
  reload                discard unsynced changes and fetch again
  retry                 resubmit unsynced changes
  revision <version>    print an archived revision
  exit | quit           leave the program`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Save(ctx context.Context) error
	Toggle(ctx context.Context) error
	SetName(ctx context.Context, v string) error
	SetWallet(ctx context.Context, v string) error
	SetRate(ctx context.Context, v string) error
	ToggleDay(ctx context.Context, v string) error
	SetFrom(ctx context.Context, v string) error
	SetTo(ctx context.Context, v string) error
	AddTag(ctx context.Context, v string) error
	RemoveTag(ctx context.Context, v string) error
	Suggest(ctx context.Context, prefix string) error
	Diff(ctx context.Context) error
	Reload(ctx context.Context) error
	Retry(ctx context.Context) error
	Revision(ctx context.Context, v string) error
}

// runREPL reads commands line by line and dispatches them to a. The first
// word is the command, the rest of the line is its argument. The loop exits
// on scanner EOF, on context cancellation or when the user types "exit" or
// "quit". Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("profile %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		cmd, rest := splitCommand(scanner.Text())
		if cmd == "" {
			continue
		}

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "show":
			err = a.Show(ctx)
		case "edit":
			err = a.Edit(ctx)
		case "save":
			err = a.Save(ctx)
		case "toggle":
			err = a.Toggle(ctx)

		case "name":
			err = a.SetName(ctx, rest)
		case "wallet":
			err = a.SetWallet(ctx, rest)
		case "rate":
			err = a.SetRate(ctx, rest)

		case "day", "from", "to", "revision":
			if rest == "" {
				printlnFn(fmt.Sprintf("Usage: %s <value>", cmd))
				continue
			}
			switch cmd {
			case "day":
				err = a.ToggleDay(ctx, rest)
			case "from":
				err = a.SetFrom(ctx, rest)
			case "to":
				err = a.SetTo(ctx, rest)
			default:
				err = a.Revision(ctx, rest)
			}

		case "tag":
			sub, text := splitCommand(rest)
			switch {
			case sub == "add" && text != "":
				err = a.AddTag(ctx, text)
			case sub == "rm" && text != "":
				err = a.RemoveTag(ctx, text)
			default:
				printlnFn("Usage: tag add|rm <text>")
			}
		case "tags":
			err = a.Suggest(ctx, rest)

		case "diff":
			err = a.Diff(ctx)
		case "reload":
			err = a.Reload(ctx)
		case "retry":
			err = a.Retry(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

// splitCommand returns the first word of line and the trimmed remainder.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}
