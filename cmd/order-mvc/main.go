// Command order-mvc прогоняет демонстрационный сценарий работы с заказами в консоли.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/controller"
	"github.com/vladislavdragonenkov/ordermvc/internal/storage/memory"
	"github.com/vladislavdragonenkov/ordermvc/internal/view"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("order-mvc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	noColor := fs.Bool("no-color", false, "disable ANSI colors in error output")
	logLevel := fs.String("log-level", "warn", "log level for diagnostics written to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -log-level: %v\n", err)
		return 2
	}
	logger := log.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger.SetLevel(level)

	var options []view.Option
	if *noColor {
		options = append(options, view.WithColor(false))
	}

	ctrl := controller.New(
		view.NewConsoleView(stdout, stderr, options...),
		memory.NewOrderRepository(),
		controller.WithLogger(logger.WithField("component", "order-controller")),
	)
	runScenario(ctrl, stdout)
	return 0
}

// runScenario создаёт, меняет, показывает и удаляет заказы только через контроллер.
// Ошибки контроллер уже показал через view, поэтому здесь они не обрабатываются.
func runScenario(ctrl *controller.OrderController, out io.Writer) {
	ctrl.CreateOrder(1001, "ORD-001", "Customer101", 2500.0)
	_ = ctrl.RefreshView("ORD-001")

	_ = ctrl.UpdateAmount("ORD-001", 3000.0)
	_ = ctrl.UpdateCustomer("ORD-001", "Customer102")
	_ = ctrl.RefreshView("ORD-001")

	ctrl.CreateOrder(1002, "ORD-002", "Customer201", 15000.0)
	_ = ctrl.RefreshView("ORD-002")

	fmt.Fprintln(out, "\nAll orders before deletion:")
	_, _ = ctrl.ListAllOrders()

	fmt.Fprintln(out, "\nDeleting order ORD-001...")
	_ = ctrl.DeleteOrder("ORD-001")

	fmt.Fprintln(out, "\nAll orders after deletion:")
	_, _ = ctrl.ListAllOrders()
}
