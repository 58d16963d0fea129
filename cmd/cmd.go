package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atc-lang/atc/doc"
	"github.com/atc-lang/atc/transpiler"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Execute runs the atc CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "atc",
		Usage:                  "A source transform that lowers @-method syntax to plain C",
		Version:                version,
		UseShortOptionHandling: true,
		Flags:                  append(commonFlags(), noTrailerFlag()),
		// Allow `atc unit.d` as shorthand for `atc build unit.d`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				arg := cmd.Args().First()
				if strings.HasSuffix(arg, ".d") && fileExists(arg) {
					return buildFile(cmd, arg, "")
				}
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Transform a .d file and write the C output",
				ArgsUsage: "<file.d>",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file name",
					},
					noTrailerFlag(),
				),
				Action: buildAction,
			},
			{
				Name:      "emit",
				Usage:     "Print the transformed source to stdout",
				ArgsUsage: "<file.d>",
				Flags:     commonFlags(),
				Action:    emitAction,
			},
			{
				Name:      "check",
				Usage:     "Run the transform and report diagnostics without writing output",
				ArgsUsage: "<file.d>...",
				Flags:     commonFlags(),
				Action:    checkAction,
			},
			{
				Name:      "doc",
				Usage:     "Show struct and method documentation from a .d file",
				ArgsUsage: "<file.d> [symbol]",
				Flags:     commonFlags(),
				Action:    docAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print stage progress to stderr",
		},
		&cli.BoolFlag{
			Name:  "inline",
			Usage: "Emit struct declarations in place instead of hoisting them",
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Aliases: []string{"C"},
			Usage:   "Disable ANSI color output",
		},
	}
}

func noTrailerFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-trailer",
		Usage: "Do not append the commented source trailer to file output",
	}
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: atc build [-o output] <file.d>")
	}
	output := cmd.String("output")
	// Also check if -o was passed after the filename (urfave quirk)
	if output == "" {
		for i, arg := range os.Args {
			if (arg == "-o" || arg == "--output") && i+1 < len(os.Args) {
				output = os.Args[i+1]
			}
		}
	}
	return buildFile(cmd, cmd.Args().First(), output)
}

func buildFile(cmd *cli.Command, input, output string) error {
	if output == "" {
		out, err := defaultOutput(input)
		if err != nil {
			return err
		}
		output = out
	}

	res, src, err := transpile(cmd, input)
	if err != nil {
		return err
	}
	reportWarnings(cmd, res)

	text := res.Output()
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if !cmd.Bool("no-trailer") {
		text += transpiler.Trailer(filepath.Base(output), filepath.Base(input), src)
	}
	if err := os.WriteFile(output, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	verbose(cmd, "%s -> %s (%d structs)\n", input, output, res.Structs.Len())
	return nil
}

func emitAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: atc emit <file.d>")
	}
	res, _, err := transpile(cmd, cmd.Args().First())
	if err != nil {
		return err
	}
	reportWarnings(cmd, res)
	fmt.Print(res.Output())
	return nil
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: atc check <file.d>...")
	}
	failed := false
	for _, input := range cmd.Args().Slice() {
		res, _, err := transpile(cmd, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failed = true
			continue
		}
		reportWarnings(cmd, res)
		fmt.Printf("%s: ok (%d structs, %d warnings)\n", input, res.Structs.Len(), len(res.Warnings))
	}
	if failed {
		return fmt.Errorf("check failed")
	}
	return nil
}

func docAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: atc doc <file.d> [symbol]")
	}
	fd, err := doc.ExtractFile(cmd.Args().First())
	if err != nil {
		return err
	}
	if cmd.NArg() >= 2 {
		symbol := cmd.Args().Get(1)
		text, sig, found := doc.LookupSymbol(fd, symbol)
		if !found {
			return fmt.Errorf("symbol not found: %s", symbol)
		}
		fmt.Print(doc.FormatSymbol(text, sig))
		return nil
	}
	fmt.Print(doc.FormatFile(fd))
	return nil
}

// transpile reads input and runs the transform, returning the result and
// the original source text.
func transpile(cmd *cli.Command, input string) (*transpiler.Result, string, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", input, err)
	}
	verbose(cmd, "transforming %s\n", input)
	tr := &transpiler.Transpiler{Inline: cmd.Bool("inline")}
	res, err := tr.Transform(string(data))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(input), err)
	}
	return res, string(data), nil
}

// defaultOutput derives the output path by swapping the .d suffix for .c.
// Anything else needs an explicit -o.
func defaultOutput(input string) (string, error) {
	if strings.HasSuffix(input, ".d") {
		return strings.TrimSuffix(input, ".d") + ".c", nil
	}
	return "", fmt.Errorf("cannot derive an output name for %s, use -o", input)
}

func reportWarnings(cmd *cli.Command, res *transpiler.Result) {
	if len(res.Warnings) == 0 {
		return
	}
	label := warnLabel(cmd)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", label, w)
	}
}

// warnLabel colorizes the warning prefix when stderr is a terminal and
// color is not disabled.
func warnLabel(cmd *cli.Command) string {
	if cmd.Bool("no-color") || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd())) {
		return "warning:"
	}
	return "\033[33mwarning:\033[0m"
}

func verbose(cmd *cli.Command, format string, args ...interface{}) {
	if cmd.Bool("verbose") {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
