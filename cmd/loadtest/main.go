// Command loadtest нагружает gRPC API сервиса заказов и печатает сводку задержек.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcsvc "github.com/vladislavdragonenkov/ordermvc/internal/service/grpc"
)

type loadMode string

const (
	modeCreate             loadMode = "create"
	modeCreateUpdate       loadMode = "create-update"
	modeCreateUpdateDelete loadMode = "create-update-delete"

	scenarioKey = "scenario"
)

type config struct {
	addr        string
	total       int
	concurrency int
	timeout     time.Duration
	mode        loadMode
	amount      float64
	prefix      string
	jsonOutput  bool
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type methodReport struct {
	Calls     int64            `json:"calls"`
	Failed    int64            `json:"failed"`
	Codes     map[string]int64 `json:"codes"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type report struct {
	Mode            loadMode                `json:"mode"`
	DurationSeconds float64                 `json:"duration_seconds"`
	RPS             float64                 `json:"rps"`
	Methods         map[string]methodReport `json:"methods"`
}

// collector копит задержки и коды ответов по методам.
type collector struct {
	mu        sync.Mutex
	calls     map[string]int64
	failed    map[string]int64
	codes     map[string]map[string]int64
	latencies map[string][]float64
}

func newCollector() *collector {
	return &collector{
		calls:     make(map[string]int64),
		failed:    make(map[string]int64),
		codes:     make(map[string]map[string]int64),
		latencies: make(map[string][]float64),
	}
}

func (c *collector) record(method string, latency time.Duration, err error) {
	code := status.Code(err)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls[method]++
	if code != codes.OK {
		c.failed[method]++
	}
	if c.codes[method] == nil {
		c.codes[method] = make(map[string]int64)
	}
	c.codes[method][code.String()]++
	c.latencies[method] = append(c.latencies[method], float64(latency.Microseconds())/1000.0)
}

func (c *collector) report(mode loadMode, elapsed time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := report{Mode: mode, DurationSeconds: elapsed.Seconds(), Methods: make(map[string]methodReport, len(c.calls))}
	for method, calls := range c.calls {
		r.Methods[method] = methodReport{
			Calls:     calls,
			Failed:    c.failed[method],
			Codes:     c.codes[method],
			LatencyMs: summarize(c.latencies[method]),
		}
	}
	if elapsed > 0 {
		r.RPS = float64(c.calls[scenarioKey]) / elapsed.Seconds()
	}
	return r
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}

	conn, err := grpc.NewClient(cfg.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(stderr, "create grpc client: %v\n", err)
		return 1
	}
	defer conn.Close()

	result := execute(context.Background(), grpcsvc.NewOrderServiceClient(conn), cfg)
	if cfg.jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printReport(stdout, result)
	}

	if result.Methods[scenarioKey].Failed > 0 {
		return 1
	}
	return 0
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	cfg := config{}
	var mode string

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.addr, "addr", "localhost:50051", "gRPC target address")
	fs.IntVar(&cfg.total, "total", 400, "total scenarios to execute")
	fs.IntVar(&cfg.concurrency, "concurrency", 20, "number of scenarios in flight")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-RPC timeout")
	fs.StringVar(&mode, "mode", string(modeCreate), "load mode: create | create-update | create-update-delete")
	fs.Float64Var(&cfg.amount, "amount", 2500, "initial order amount")
	fs.StringVar(&cfg.prefix, "prefix", "LT", "order number prefix")
	fs.BoolVar(&cfg.jsonOutput, "json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	switch m := loadMode(strings.TrimSpace(mode)); m {
	case modeCreate, modeCreateUpdate, modeCreateUpdateDelete:
		cfg.mode = m
	default:
		return cfg, fmt.Errorf("unsupported mode: %s", mode)
	}

	switch {
	case cfg.total <= 0:
		return cfg, errors.New("total must be > 0")
	case cfg.concurrency <= 0:
		return cfg, errors.New("concurrency must be > 0")
	case cfg.timeout <= 0:
		return cfg, errors.New("timeout must be > 0")
	case !(cfg.amount > 0):
		return cfg, errors.New("amount must be > 0")
	case strings.TrimSpace(cfg.prefix) == "":
		return cfg, errors.New("prefix is required")
	}
	return cfg, nil
}

// execute прогоняет cfg.total сценариев, не более cfg.concurrency одновременно.
// Ошибка сценария не останавливает остальные: она попадает в отчёт.
func execute(ctx context.Context, client *grpcsvc.OrderServiceClient, cfg config) report {
	col := newCollector()
	runID := time.Now().UTC().Format("150405.000")
	started := time.Now()

	var g errgroup.Group
	g.SetLimit(cfg.concurrency)
	for i := 0; i < cfg.total; i++ {
		i := i
		g.Go(func() error {
			start := time.Now()
			err := runScenario(ctx, client, cfg, col, int64(i+1), fmt.Sprintf("%s-%s-%d", cfg.prefix, runID, i))
			col.record(scenarioKey, time.Since(start), err)
			return nil
		})
	}
	_ = g.Wait()

	return col.report(cfg.mode, time.Since(started))
}

func runScenario(ctx context.Context, client *grpcsvc.OrderServiceClient, cfg config, col *collector, id int64, orderNo string) error {
	call := func(method string, fn func(context.Context) error) error {
		callCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
		start := time.Now()
		err := fn(callCtx)
		col.record(method, time.Since(start), err)
		return err
	}

	if err := call("CreateOrder", func(ctx context.Context) error {
		_, err := client.CreateOrder(ctx, &grpcsvc.CreateOrderRequest{ID: id, OrderNo: orderNo, Customer: "load-" + orderNo, Amount: cfg.amount})
		return err
	}); err != nil {
		return err
	}
	if cfg.mode == modeCreate {
		return nil
	}

	if err := call("UpdateAmount", func(ctx context.Context) error {
		_, err := client.UpdateAmount(ctx, &grpcsvc.UpdateAmountRequest{OrderNo: orderNo, Amount: cfg.amount * 2})
		return err
	}); err != nil {
		return err
	}
	if cfg.mode == modeCreateUpdate {
		return nil
	}

	return call("DeleteOrder", func(ctx context.Context) error {
		_, err := client.DeleteOrder(ctx, &grpcsvc.DeleteOrderRequest{OrderNo: orderNo})
		return err
	})
}

func printReport(w io.Writer, r report) {
	scenario := r.Methods[scenarioKey]
	fmt.Fprintln(w, "Load test summary")
	fmt.Fprintf(w, "mode=%s scenarios=%d failed=%d duration=%.2fs rps=%.2f\n",
		r.Mode, scenario.Calls, scenario.Failed, r.DurationSeconds, r.RPS)

	names := make([]string, 0, len(r.Methods))
	for name := range r.Methods {
		if name != scenarioKey {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		m := r.Methods[name]
		fmt.Fprintf(w, "%s: calls=%d failed=%d p50=%.2fms p95=%.2fms p99=%.2fms\n",
			name, m.Calls, m.Failed, m.LatencyMs.P50, m.LatencyMs.P95, m.LatencyMs.P99)
	}
}

func summarize(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

// percentile интерполирует между соседними рангами отсортированного среза.
func percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower, upper := int(math.Floor(rank)), int(math.Ceil(rank))
	return sorted[lower] + (sorted[upper]-sorted[lower])*(rank-float64(lower))
}
