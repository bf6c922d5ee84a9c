package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSelection(t *testing.T) {
	cfg := common.NewConfig()
	cfg.BlockCapacity = 256
	buf := new(bytes.Buffer)

	err := run(context.Background(), cfg, "SELECT colA, colA * 2 FROM test_1 WHERE colA < 3", 1, 10, buf)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "ProjectionPlanNode"), out)
	assert.Contains(t, out, "0\t0\n1\t2\n2\t4\n")
	assert.Contains(t, out, "rows: 3, batches: 4, work orders: 4")
	assert.Contains(t, out, "samehada_expr_comparison_dispatch_total{strategy=")
}

func TestRunJoin(t *testing.T) {
	cfg := common.NewConfig()
	buf := new(bytes.Buffer)

	err := run(context.Background(), cfg, "SELECT colA, col1 FROM test_1, test_2 WHERE colA = col1 AND col1 < 2", 1, 10, buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "0\t0\n1\t1\n")
	assert.Contains(t, buf.String(), "rows: 2,")
}

func TestRunRejectsUnknownTable(t *testing.T) {
	err := run(context.Background(), common.NewConfig(), "SELECT a FROM nothing", 1, 10, new(bytes.Buffer))
	assert.Error(t, err)
}
