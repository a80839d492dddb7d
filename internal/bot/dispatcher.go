// Package bot maps chat commands to forecast requests.
package bot

import (
	"context"
	"log"
	"strings"

	"PricePredictor/internal/model"
	"PricePredictor/internal/notifier"
	"PricePredictor/internal/pipeline"
)

// Runner executes one forecast request.
type Runner interface {
	Run(ctx context.Context, req model.Request) (*model.Report, error)
}

// Dispatcher turns chat text into pipeline runs and formatted replies.
type Dispatcher struct {
	Runner       Runner
	DefaultStock string
	DefaultFund  string
	Ctx          context.Context
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(ctx context.Context, runner Runner, defaultStock, defaultFund string) *Dispatcher {
	return &Dispatcher{Runner: runner, DefaultStock: defaultStock, DefaultFund: defaultFund, Ctx: ctx}
}

// HandleCommand processes a user command and returns the replies.
func (d *Dispatcher) HandleCommand(command string) []string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return []string{d.help()}
	}
	// "/stock@SomeBot TCS.NS" in group chats.
	name := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch name {
	case "/stock":
		return d.forecast(model.KindStock, first(args))
	case "/fund", "/mf":
		return d.forecast(model.KindMutualFund, first(args))
	case "/forecast":
		if len(args) == 0 {
			return []string{notifier.FormatError("Usage: /forecast <stock|mf> <id>")}
		}
		kind, err := model.ParseAssetKind(args[0])
		if err != nil {
			return []string{notifier.FormatError(err.Error())}
		}
		return d.forecast(kind, first(args[1:]))
	case "/about":
		return []string{notifier.FormatAbout()}
	default:
		return []string{d.help()}
	}
}

func (d *Dispatcher) help() string {
	return notifier.FormatHelp(d.DefaultStock, d.DefaultFund)
}

func (d *Dispatcher) forecast(kind model.AssetKind, id string) []string {
	if id == "" {
		id = d.DefaultStock
		if kind == model.KindMutualFund {
			id = d.DefaultFund
		}
	}
	req := model.Request{Kind: kind, Identifier: strings.ToUpper(id)}

	ctx := d.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := d.Runner.Run(ctx, req)
	if err != nil {
		log.Printf("[WARN] command %s %s: %v", kind, req.Identifier, err)
		return []string{notifier.FormatError(pipeline.UserMessage(req, err))}
	}
	return notifier.FormatReport(report)
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

