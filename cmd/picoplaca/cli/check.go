package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/picoplaca/picoplaca/internal/picoplaca"
)

const (
	promptPlate = "Please, enter your license plate number: "
	promptDate  = "Enter date in DD-MM-YYYY format: "
	promptTime  = "Enter time in HH:MM format: "

	invalidPlate  = "Invalid plate number!"
	invalidFormat = "Invalid input format!"

	// DefaultRetries is how many times a missing value is prompted for.
	DefaultRetries = 3
)

// Exit codes returned by CheckCommand.
const (
	ExitOK      = 0
	ExitInvalid = 1
	ExitUsage   = 2
)

// ErrRetriesExhausted is returned when the user never supplies a valid value.
var ErrRetriesExhausted = errors.New("cli: too many invalid attempts")

// CheckOptions defines the flags and streams for the check command.
type CheckOptions struct {
	Plate      string
	Date       string
	Time       string
	Lang       string
	JSONOutput bool
	Retries    int
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// ParseCheckFlags parses check command arguments.
func ParseCheckFlags(args []string, stderr io.Writer) (CheckOptions, error) {
	opts := CheckOptions{Stderr: stderr}
	fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.Plate, "plate", "p", "", "license plate, e.g. PCQ-8981")
	fs.StringVarP(&opts.Date, "date", "d", "", "date in DD-MM-YYYY format")
	fs.StringVarP(&opts.Time, "time", "t", "", "time in HH:MM format")
	fs.StringVar(&opts.Lang, "lang", "en", "message language (en, es)")
	fs.BoolVar(&opts.JSONOutput, "json", false, "print the result as JSON")
	fs.IntVar(&opts.Retries, "retries", DefaultRetries, "attempts per prompted value")
	if err := fs.Parse(args); err != nil {
		return CheckOptions{}, err
	}
	if fs.NArg() > 0 {
		return CheckOptions{}, fmt.Errorf("check: unexpected arguments %v", fs.Args())
	}
	if opts.Retries <= 0 {
		return CheckOptions{}, errors.New("check: --retries must be positive")
	}
	return opts, nil
}

type checker interface {
	Check(ctx context.Context, q picoplaca.Query, lang language.Tag) (picoplaca.Result, error)
}

// CheckCommand gathers plate, date and time, evaluates them and prints the verdict.
func CheckCommand(ctx context.Context, svc checker, opts CheckOptions) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Retries <= 0 {
		opts.Retries = DefaultRetries
	}
	lang := picoplaca.ParseLanguage(opts.Lang)

	// Prompts go to stderr in JSON mode so stdout holds only the document.
	promptOut := opts.Stdout
	if opts.JSONOutput {
		promptOut = opts.Stderr
	}
	p := &prompter{in: bufio.NewScanner(opts.Stdin), out: promptOut, retries: opts.Retries}
	if !opts.JSONOutput && (opts.Plate == "" || opts.Date == "" || opts.Time == "") {
		_, _ = fmt.Fprintln(opts.Stdout, "** Welcome to the Pico y Placa Predictor! **")
		_, _ = fmt.Fprintln(opts.Stdout)
	}

	query := picoplaca.Query{}
	var err error
	if query.Plate, err = p.value(opts.Plate, promptPlate, invalidPlate, validPlate); err != nil {
		return fail(opts.Stderr, err)
	}
	if query.Date, err = p.value(opts.Date, promptDate, invalidFormat, validDate); err != nil {
		return fail(opts.Stderr, err)
	}
	if query.Time, err = p.value(opts.Time, promptTime, invalidFormat, validTime); err != nil {
		return fail(opts.Stderr, err)
	}

	result, err := svc.Check(ctx, query, lang)
	if err != nil {
		return fail(opts.Stderr, err)
	}

	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(result); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "check: encode json: %v\n", err)
			return ExitInvalid
		}
		return ExitOK
	}
	renderHuman(opts.Stdout, lang, result)
	return ExitOK
}

func renderHuman(out io.Writer, lang language.Tag, result picoplaca.Result) {
	printer := picoplaca.NewPrinter(lang)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, printer.Sprintf(picoplaca.LabelPlate, result.Plate))
	_, _ = fmt.Fprintln(out, printer.Sprintf(picoplaca.LabelDate, result.Date))
	_, _ = fmt.Fprintln(out, printer.Sprintf(picoplaca.LabelTime, result.Time.String()))
	_, _ = fmt.Fprintln(out, result.Message)
}

func fail(stderr io.Writer, err error) int {
	_, _ = fmt.Fprintf(stderr, "check: %v\n", err)
	return ExitInvalid
}

type prompter struct {
	in      *bufio.Scanner
	out     io.Writer
	retries int
}

// value returns preset when given, otherwise prompts until valid or retries run out.
func (p *prompter) value(preset, prompt, invalid string, valid func(string) error) (string, error) {
	if preset != "" {
		if err := valid(preset); err != nil {
			return "", err
		}
		return preset, nil
	}
	for attempt := 0; attempt < p.retries; attempt++ {
		_, _ = fmt.Fprint(p.out, prompt)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("cli: read input: %w", err)
			}
			return "", fmt.Errorf("cli: read input: %w", io.ErrUnexpectedEOF)
		}
		entry := strings.TrimSpace(p.in.Text())
		if err := valid(entry); err != nil {
			_, _ = fmt.Fprintln(p.out, invalid)
			continue
		}
		return entry, nil
	}
	return "", ErrRetriesExhausted
}

func validPlate(s string) error {
	_, err := picoplaca.ParsePlate(s)
	return err
}

func validDate(s string) error {
	_, err := picoplaca.ParseDate(s)
	return err
}

func validTime(s string) error {
	_, err := picoplaca.ParseClock(s)
	return err
}
