package domain

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestResponseUserText(t *testing.T) {
	tests := []struct {
		name string
		resp CommandResponse
		want string
	}{
		{
			name: "none is silent",
			resp: NoResponse(),
			want: "",
		},
		{
			name: "success passes through",
			resp: BasicSuccess("done"),
			want: "done",
		},
		{
			name: "failure passes through",
			resp: BasicFailure("item and personal are required"),
			want: "item and personal are required",
		},
		{
			name: "complex failure shows the user-facing half",
			resp: ComplexFailure("upstream returned an error", zerolog.WarnLevel, "status 503 from upstream"),
			want: "upstream returned an error",
		},
		{
			name: "internal failure is sanitized",
			resp: InternalFailure("sql: database is closed"),
			want: "An internal error occurred.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.UserText())
		})
	}
}

func TestResponseInternalDetailNeverReachesUser(t *testing.T) {
	resp := InternalFailure("error communicating with database: disk I/O error")

	assert.NotContains(t, resp.UserText(), "disk I/O error")
	assert.Contains(t, resp.LogText(), "disk I/O error")
}

func TestResponseLogsExactlyOnce(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	resp := InternalFailure("sql: database is closed")
	resp.WriteToLog(l)
	resp.WriteToLog(l)
	resp.WriteToLog(l)

	lines := strings.Count(buf.String(), "\n")
	assert.Equal(t, 1, lines)
	assert.Contains(t, buf.String(), "database is closed")
}

func TestResponseNoLogForSilentKinds(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	none := NoResponse()
	none.WriteToLog(l)

	success := BasicSuccess("done")
	success.WriteToLog(l)

	assert.Empty(t, buf.String())
}

func TestResponseLogSeverity(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	resp := ComplexFailure("upstream error", zerolog.WarnLevel, "status 503 from upstream")
	resp.WriteToLog(l)

	assert.Contains(t, buf.String(), `"level":"warn"`)
}
