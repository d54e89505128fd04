package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E001", "sale 7 not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "sale 7 not found", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"file": "purchases_backup.json", "index": "3"}
	err := formatter.Error("E002", "invalid backup document", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Recorded sale #1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Recorded sale #1")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E001", "sale 7 not found", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "sale 7 not found")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "purchases_backup.json"}
	err := formatter.Error("E001", "sale 7 not found", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("reading %s", "purchases_backup.json")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "reading purchases_backup.json")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status: "ok",
		Data:   map[string]int{"count": 42},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "E100",
		Message: "invalid amount",
		Details: []string{"amount must be a positive number"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "E100", decoded.Code)
	assert.Equal(t, "invalid amount", decoded.Message)
}

func TestOutputFormatter_SuccessTraced(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.SuccessTraced(map[string]int{"winning_code": 3}, "draw-1"))
	assert.JSONEq(t, `{"status":"ok","data":{"winning_code":3},"trace_id":"draw-1"}`, buf.String())
}

func TestOutputFormatter_Render(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	called := false
	require.NoError(t, formatter.Render("ignored", func(w io.Writer) {
		called = true
		fmt.Fprint(w, "table")
	}))
	assert.True(t, called)
	assert.Equal(t, "table", buf.String())

	buf.Reset()
	formatter.Format = "json"
	require.NoError(t, formatter.Render([]int{1, 2}, func(io.Writer) { t.Fatal("text renderer called for json") }))
	assert.JSONEq(t, `{"status":"ok","data":[1,2]}`, buf.String())
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		symbol string
		n      int64
		want   string
	}{
		{"$", 0, "$0"},
		{"$", 999, "$999"},
		{"$", 50000, "$50,000"},
		{"", 1250000, "1,250,000"},
		{"T ", 12000000, "T 12,000,000"},
		{"$", -4500, "-$4,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.symbol, tt.n))
	}
}

func TestFormatDate(t *testing.T) {
	tehran, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)

	// 21:00 UTC on March 19 is already March 20 in Tehran.
	ts := time.Date(2024, time.March, 19, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, "1402/12/29", formatDate(ts, time.UTC))
	assert.Equal(t, "1403/01/01", formatDate(ts, tehran))
}

func TestRenderTable(t *testing.T) {
	buf := &bytes.Buffer{}
	renderTable(buf, []string{"Customer", "Total"}, [][]string{{"Ana", "$100,000"}, {"Bo", "$20,000"}})

	out := buf.String()
	for _, want := range []string{"Customer", "Total", "Ana", "$100,000", "Bo", "$20,000"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Ana"), strings.Index(out, "Bo"), "rows keep their order")
}
