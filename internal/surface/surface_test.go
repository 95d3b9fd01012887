package surface

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, Compact, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, JSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
	require.Equal(t, errs.InvalidValue, errs.KindOf(err))
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	code := WriteError(&buf, Compact, errs.NotFoundf("issue %d not found", 7))
	require.Equal(t, 1, code)
	require.Contains(t, buf.String(), "issue 7 not found")

	buf.Reset()
	code = WriteError(&buf, JSON, errs.CycleDetectedf("would cycle"))
	require.Equal(t, 1, code)
	var got jsonError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "CYCLE_DETECTED", got.Code)
}

func TestRenderSummaries(t *testing.T) {
	summaries := []types.IssueSummary{
		{ID: 1, Title: "one", Status: types.StatusOpen, Priority: types.PriorityHigh, Kind: types.KindBug, Urgency: 3.5},
		{ID: 2, Title: "two", Status: types.StatusDone, Priority: types.PriorityLow, Kind: types.KindTask},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSummaries(&buf, Compact, summaries))
	out := buf.String()
	require.Contains(t, out, "ID: 1")
	require.Contains(t, out, "TITLE: two")

	buf.Reset()
	require.NoError(t, RenderSummaries(&buf, JSON, summaries))
	var decoded []types.IssueSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "one", decoded[0].Title)

	t.Run("empty list renders nothing in compact mode", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderSummaries(&buf, Compact, nil))
		require.Empty(t, strings.TrimSpace(buf.String()))
	})
}

func TestRenderDependAndUndepend(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDepend(&buf, Compact, 1, 2))
	require.Equal(t, "1 -> 2\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderDepend(&buf, JSON, 1, 2))
	var depend map[string]int64
	require.NoError(t, json.Unmarshal(buf.Bytes(), &depend))
	require.Equal(t, int64(1), depend["blocker_id"])
	require.Equal(t, int64(2), depend["blocked_id"])

	buf.Reset()
	require.NoError(t, RenderUndepend(&buf, JSON, []int64{3, 4}))
	var undepend map[string][]int64
	require.NoError(t, json.Unmarshal(buf.Bytes(), &undepend))
	require.Equal(t, []int64{3, 4}, undepend["unblocked"])
}

func TestRenderConfigList(t *testing.T) {
	var buf bytes.Buffer
	m := map[string]string{"urgency.priority.critical": "5.0"}
	require.NoError(t, RenderConfigList(&buf, JSON, m))
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "5.0", decoded["urgency.priority.critical"])
}
