package cli

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/daftar/internal/engine"
	"github.com/roach88/daftar/internal/report"
	"github.com/roach88/daftar/internal/sale"
)

// LotteryOptions holds flags for the lottery command.
type LotteryOptions struct {
	*RootOptions
	Range rangeFlags
	Seed  uint64
}

type participantView struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Total     int64  `json:"total"`
	Purchases int    `json:"purchases"`
	Chances   int64  `json:"chances"`
	FirstCode int64  `json:"first_code"`
	LastCode  int64  `json:"last_code"`
}

// lotteryView is the JSON shape of a lottery run.
type lotteryView struct {
	Status       report.Status     `json:"status"`
	From         string            `json:"from,omitempty"`
	To           string            `json:"to,omitempty"`
	ChanceUnit   int64             `json:"chance_unit"`
	Participants []participantView `json:"participants"`
	TotalChances int64             `json:"total_chances"`
	WinningCode  int64             `json:"winning_code,omitempty"`
	Winner       *participantView  `json:"winner,omitempty"`
}

func newParticipantView(p report.Participant) participantView {
	return participantView{
		Name:      p.Name,
		Contact:   p.Contact,
		Total:     p.Total,
		Purchases: p.Count,
		Chances:   p.Chances,
		FirstCode: p.FirstCode,
		LastCode:  p.LastCode,
	}
}

// NewLotteryCommand creates the lottery command.
func NewLotteryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LotteryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lottery",
		Short: "Draw a winner weighted by spend",
		Long: `Give every customer one chance per 50,000 spent in the period and draw
one winning code.

Codes are numbered from 1 in the order customers first appear. Pass --seed
to repeat a draw.

Examples:
  daftar lottery --from 1403/01/01 --to 1403/03/31
  daftar lottery --seed 42 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLottery(cmd, opts)
		},
	}

	opts.Range.register(cmd)
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for a repeatable draw")
	return cmd
}

func runLottery(cmd *cobra.Command, opts *LotteryOptions) error {
	rng := opts.Rand
	if cmd.Flags().Changed("seed") {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	q := opts.query(opts.Range, sale.CategoryNone)
	runner := engine.NewRunner(st, engine.WithLogger(opts.Log), engine.WithRand(rng))
	out, err := runner.Lottery(cmd.Context(), q)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to run lottery", err)
	}

	drawID := opts.NewID()
	view := lotteryView{
		Status:       out.Status,
		From:         q.From,
		To:           q.To,
		ChanceUnit:   report.ChanceUnit,
		Participants: make([]participantView, len(out.Participants)),
		TotalChances: out.TotalChances,
		WinningCode:  out.WinningCode,
	}
	for i, p := range out.Participants {
		view.Participants[i] = newParticipantView(p)
	}
	if out.Winner != nil {
		w := newParticipantView(*out.Winner)
		view.Winner = &w
	}
	opts.Log.WithFields(logrus.Fields{
		"draw_id":       drawID,
		"status":        out.Status,
		"total_chances": out.TotalChances,
		"winning_code":  out.WinningCode,
	}).Info("lottery drawn")

	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.SuccessTraced(view, drawID)
	}
	printLottery(f.Writer, out, opts.Config.CurrencySymbol)
	return nil
}

func printLottery(w io.Writer, out report.Outcome, symbol string) {
	switch out.Status {
	case report.StatusNoRecords:
		fmt.Fprintln(w, "No records found for this period.")
		return
	case report.StatusNoEligible:
		fmt.Fprintf(w, "No eligible participants: nobody spent %s or more.\n", formatAmount(symbol, report.ChanceUnit))
		return
	}

	rows := make([][]string, len(out.Participants))
	for i, p := range out.Participants {
		codes := fmt.Sprint(p.FirstCode)
		if p.LastCode != p.FirstCode {
			codes = fmt.Sprintf("%d-%d", p.FirstCode, p.LastCode)
		}
		rows[i] = []string{p.Name, p.Contact, formatAmount(symbol, p.Total), fmt.Sprint(p.Chances), codes}
	}
	renderTable(w, []string{"Customer", "Contact", "Total", "Chances", "Codes"}, rows)
	fmt.Fprintf(w, "Total chances: %d\n", out.TotalChances)
	if out.Winner != nil {
		fmt.Fprintf(w, "Winning code %d: %s (%s)\n", out.WinningCode, out.Winner.Name, out.Winner.Contact)
	}
}
