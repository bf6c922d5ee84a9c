package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dsnet/golib/memfile"
	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/execution/executors"
	"github.com/ryogrid/SamehadaExpr/execution/expression"
	"github.com/ryogrid/SamehadaExpr/execution/plans"
	"github.com/ryogrid/SamehadaExpr/parser"
	"github.com/ryogrid/SamehadaExpr/planner"
	"github.com/ryogrid/SamehadaExpr/storage/block"
	"github.com/ryogrid/SamehadaExpr/testing/testing_tbl_gen"
)

// generates test_1 and test_2 tables, runs a SELECT over them and prints
// results with dispatch decisions of comparisons.
//
//	main -query "SELECT colA, colB FROM test_1 WHERE colA < 100 AND colB = 3"
func main() {
	cfg := common.NewConfig()
	cfg.RegisterFlags(flag.CommandLine)
	query := flag.String("query", "SELECT colA, colB FROM test_1 WHERE colA < 100 AND colB = 3", "SELECT statement over test_1 and test_2.")
	seed := flag.Int64("seed", 1, "Seed of generated data.")
	maxRows := flag.Int("max-rows", 10, "Number of result rows to print.")
	flag.Parse()
	cfg.Apply()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *query, *seed, *maxRows, os.Stdout); err != nil {
		common.ShPrintf(common.ERROR, "query failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *common.Config, query string, seed int64, maxRows int, out io.Writer) error {
	c := catalog.NewCatalog()
	relation1, blocks1, relation2, blocks2 := testing_tbl_gen.GenerateTestTabls(c, cfg.BlockCapacity, seed)
	blocks := map[catalog.RelationID][]*block.StorageBlock{
		relation1.GetID(): blocks1,
		relation2.GetID(): blocks2,
	}

	queryInfo, err := parser.ProcessSQLStr(&query, c)
	if err != nil {
		return err
	}

	if queryInfo.WhereExpression_ != nil {
		// persisted and restored predicate is evaluated
		if queryInfo.WhereExpression_, err = roundTrip(queryInfo.WhereExpression_, c); err != nil {
			return err
		}
	}

	plan, err := planner.NewSimplePlanner(c, blocks).MakePlan(queryInfo)
	if err != nil {
		return err
	}
	plans.PrintPlanTree(out, plan, 0)

	engine := executors.NewExecutionEngine()
	batches, err := engine.Execute(plan, executors.NewExecutorContext(ctx, c, cfg))
	if err != nil {
		return err
	}

	printed := 0
	for _, batch := range batches {
		for row := 0; row < batch.NumRows() && printed < maxRows; row++ {
			vals := make([]string, 0, len(batch.Columns))
			for _, column := range batch.Columns {
				vals = append(vals, column.GetValue(row).ToString())
			}
			fmt.Fprintln(out, strings.Join(vals, "\t"))
			printed++
		}
	}

	stats := engine.GetStats()
	fmt.Fprintf(out, "rows: %d, batches: %d, work orders: %d\n",
		stats.Rows.Load(), stats.Batches.Load(), stats.WorkOrders.Load())
	return printMetrics(out)
}

func roundTrip(predicate expression.Predicate, c *catalog.Catalog) (expression.Predicate, error) {
	f := memfile.New(make([]byte, 0))
	if err := expression.WritePredicateTo(f, predicate); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return expression.ReadPredicateFrom(f, c)
}

func printMetrics(out io.Writer) error {
	families, err := expression.MetricsRegistry().Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0)
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			fmt.Fprintf(out, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}
