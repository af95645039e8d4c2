package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picoplaca/picoplaca/internal/picoplaca"
)

func runCheck(t *testing.T, opts CheckOptions, stdin string) (int, string, string) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	opts.Stdin = strings.NewReader(stdin)
	opts.Stdout = stdout
	opts.Stderr = stderr
	code := CheckCommand(context.Background(), picoplaca.NewService(picoplaca.ServiceConfig{}), opts)
	return code, stdout.String(), stderr.String()
}

func TestCheckCommandFlags(t *testing.T) {
	code, stdout, stderr := runCheck(t, CheckOptions{Plate: "PCQ-8981", Date: "07-10-2024", Time: "08:00"}, "")
	require.Equal(t, ExitOK, code)
	require.Empty(t, stderr)
	require.NotContains(t, stdout, "Welcome")
	require.Contains(t, stdout, "License no.: PCQ-8981")
	require.Contains(t, stdout, "Date: Monday, 07.10.2024")
	require.Contains(t, stdout, "Time: 08:00")
	require.Contains(t, stdout, "This vehicle cannot circulate.")
}

func TestCheckCommandInteractiveWithRetries(t *testing.T) {
	input := strings.Join([]string{"PCQ8981", "PCQ-8981", "2024-10-13", "13-10-2024", "12:00"}, "\n") + "\n"
	code, stdout, stderr := runCheck(t, CheckOptions{Retries: 3}, input)

	require.Equal(t, ExitOK, code)
	require.Empty(t, stderr)
	require.Contains(t, stdout, "** Welcome to the Pico y Placa Predictor! **")
	require.Equal(t, 1, strings.Count(stdout, "Invalid plate number!"))
	require.Equal(t, 1, strings.Count(stdout, "Invalid input format!"))
	require.Equal(t, 2, strings.Count(stdout, promptPlate))
	require.Contains(t, stdout, "If this is a private vehicle, it cannot circulate.")
}

func TestCheckCommandRetriesExhausted(t *testing.T) {
	code, stdout, stderr := runCheck(t, CheckOptions{Retries: 2}, "bad\nworse\nPCQ-8981\n")

	require.Equal(t, ExitInvalid, code)
	require.Equal(t, 2, strings.Count(stdout, "Invalid plate number!"))
	require.Contains(t, stderr, "too many invalid attempts")
}

func TestCheckCommandEOF(t *testing.T) {
	code, _, stderr := runCheck(t, CheckOptions{Plate: "PCQ-8981"}, "")

	require.Equal(t, ExitInvalid, code)
	require.Contains(t, stderr, io.ErrUnexpectedEOF.Error())
}

func TestCheckCommandInvalidFlagValue(t *testing.T) {
	code, _, stderr := runCheck(t, CheckOptions{Plate: "PCQ-8981", Date: "07-10-2024", Time: "7pm"}, "")

	require.Equal(t, ExitInvalid, code)
	require.Contains(t, stderr, "HH:MM")
}

func TestCheckCommandJSONSpanish(t *testing.T) {
	code, stdout, stderr := runCheck(t, CheckOptions{Plate: "PCQ-8980", Date: "12-10-2024", Time: "19:30", Lang: "es", JSONOutput: true}, "")
	require.Equal(t, ExitOK, code)
	require.Empty(t, stderr)

	var result picoplaca.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Equal(t, picoplaca.VerdictForbidden, result.Verdict)
	require.Equal(t, picoplaca.Saturday, result.Weekday)
	require.Equal(t, "Este vehículo no puede circular.", result.Message)
}

func TestParseCheckFlags(t *testing.T) {
	opts, err := ParseCheckFlags([]string{"-p", "PCQ-8981", "--date=07-10-2024", "-t", "08:00", "--json", "--lang", "es"}, io.Discard)
	require.NoError(t, err)
	require.Equal(t, "PCQ-8981", opts.Plate)
	require.Equal(t, "07-10-2024", opts.Date)
	require.Equal(t, "08:00", opts.Time)
	require.True(t, opts.JSONOutput)
	require.Equal(t, "es", opts.Lang)
	require.Equal(t, DefaultRetries, opts.Retries)

	_, err = ParseCheckFlags([]string{"--unknown"}, io.Discard)
	require.Error(t, err)

	_, err = ParseCheckFlags([]string{"--retries", "0"}, io.Discard)
	require.Error(t, err)

	_, err = ParseCheckFlags([]string{"extra"}, io.Discard)
	require.Error(t, err)
}

func TestCheckCommandJSONPromptsKeepStdoutParseable(t *testing.T) {
	code, stdout, stderr := runCheck(t, CheckOptions{Date: "07-10-2024", Time: "08:00", JSONOutput: true}, "PCQ898\nPCQ-8981\n")
	require.Equal(t, ExitOK, code)

	var result picoplaca.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result), stdout)
	require.Equal(t, picoplaca.VerdictForbidden, result.Verdict)
	require.Equal(t, 2, strings.Count(stderr, promptPlate))
	require.Contains(t, stderr, "Invalid plate number!")
	require.NotContains(t, stdout, "Welcome")
}
