// Package view содержит слой представления заказов.
package view

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

const (
	colorErrorStart = "\033[1;31m"
	colorReset      = "\033[0m"
)

// ConsoleView выводит заказы в текстовом виде.
// Карточки и статусные строки пишутся в out, ошибки — в errOut.
type ConsoleView struct {
	out    io.Writer
	errOut io.Writer
	color  bool
}

// Option настраивает ConsoleView.
type Option func(*ConsoleView)

// WithColor принудительно включает или выключает ANSI-подсветку ошибок.
func WithColor(enabled bool) Option {
	return func(v *ConsoleView) {
		v.color = enabled
	}
}

// NewConsoleView создаёт представление поверх заданных потоков.
// Подсветка ошибок включается автоматически, если errOut — терминал.
func NewConsoleView(out, errOut io.Writer, options ...Option) *ConsoleView {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	v := &ConsoleView{
		out:    out,
		errOut: errOut,
		color:  isTerminal(errOut),
	}
	for _, option := range options {
		option(v)
	}
	return v
}

// NewStdView создаёт представление для stdout/stderr процесса.
func NewStdView(options ...Option) *ConsoleView {
	return NewConsoleView(os.Stdout, os.Stderr, options...)
}

// Render выводит карточку заказа фиксированного формата.
func (v *ConsoleView) Render(order domain.Order) {
	_, _ = fmt.Fprintf(v.out,
		"=== Order Details ===\nID:\t%d\nOrderNo:\t%s\nCustomer:\t%s\nAmount:\t$%s\n\n",
		order.ID, order.OrderNo, order.Customer, FormatAmount(order.Amount),
	)
}

// ShowError выводит сообщение об ошибке, обрамлённое пустыми строками.
func (v *ConsoleView) ShowError(message string) {
	if v.color {
		_, _ = fmt.Fprintf(v.errOut, "\n%s[ERROR] %s%s\n\n", colorErrorStart, message, colorReset)
		return
	}
	_, _ = fmt.Fprintf(v.errOut, "\n[ERROR] %s\n\n", message)
}

// ShowMessage выводит статусную строку.
func (v *ConsoleView) ShowMessage(message string) {
	_, _ = fmt.Fprintln(v.out, message)
}

// FormatAmount печатает сумму без лишних нулей: 2500 -> "2500", 2500.5 -> "2500.5".
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var _ domain.OrderView = (*ConsoleView)(nil)
