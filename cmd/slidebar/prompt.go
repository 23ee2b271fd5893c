package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dockwell/slidebar/internal/ipc"
)

func printPromptUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  slidebar prompt list")
	fmt.Fprintln(w, "  slidebar prompt add --name NAME --content TEXT [--fast]")
	fmt.Fprintln(w, "  slidebar prompt update --id N [--name NAME] [--content TEXT]")
	fmt.Fprintln(w, "  slidebar prompt delete <id>")
	fmt.Fprintln(w, "  slidebar prompt fast <id>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'slidebar prompt <command> --help' for command-specific options.")
}

func runPrompt(args []string) int {
	if len(args) == 0 {
		printPromptUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printPromptUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		data, err := client.ListPrompts()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, p := range data.Prompts {
			fast := " "
			if p.FastAccess {
				fast = "*"
			}
			fmt.Printf("%s %3d  %s\n", fast, p.ID, p.Name)
		}
		return 0

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		name := fs.String("name", "", "prompt name (up to 150 characters)")
		content := fs.String("content", "", "prompt text (up to 2000 characters)")
		fast := fs.Bool("fast", false, "show in the nav strip for one-click injection")
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: slidebar prompt add --name NAME --content TEXT [--fast]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if *name == "" || *content == "" {
			fmt.Fprintln(os.Stderr, "--name and --content are required")
			fs.Usage()
			return 2
		}
		p, err := client.AddPrompt(*name, *content, *fast)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("added prompt %d\n", p.ID)
		return 0

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		id := fs.Int("id", 0, "prompt id")
		name := fs.String("name", "", "new prompt name")
		content := fs.String("content", "", "new prompt text")
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: slidebar prompt update --id N [--name NAME] [--content TEXT]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if *id == 0 {
			fmt.Fprintln(os.Stderr, "--id is required")
			fs.Usage()
			return 2
		}
		if *name == "" && *content == "" {
			fmt.Fprintln(os.Stderr, "nothing to update: pass --name and/or --content")
			return 2
		}
		if *name == "" || *content == "" {
			// Read-modify-write so the unset field keeps its value.
			data, err := client.ListPrompts()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, p := range data.Prompts {
				if p.ID == *id {
					if *name == "" {
						*name = p.Name
					}
					if *content == "" {
						*content = p.Content
					}
					break
				}
			}
		}
		if err := client.UpdatePrompt(*id, *name, *content); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: slidebar prompt delete <id>")
			return 2
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "id must be a number: %v\n", err)
			return 2
		}
		if err := client.DeletePrompt(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "fast":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: slidebar prompt fast <id>")
			return 2
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "id must be a number: %v\n", err)
			return 2
		}
		if err := client.TogglePromptFastAccess(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown prompt command: %s\n\n", args[0])
		printPromptUsage(os.Stderr)
		return 2
	}
}

func runInject(args []string) int {
	fs := flag.NewFlagSet("inject", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.Int("id", 0, "inject a saved prompt by id")
	text := fs.String("text", "", "inject literal text")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: slidebar inject (--id N | --text TEXT)")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Type a prompt into the active chat's input field.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if (*id == 0) == (*text == "") {
		fmt.Fprintln(os.Stderr, "pass exactly one of --id or --text")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	var err error
	if *text != "" {
		err = client.InjectText(*text)
	} else {
		err = client.InjectPrompt(*id)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
