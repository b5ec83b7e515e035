package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/carson-networks/finance-server/internal/service"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	driftStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

type reportView struct {
	AccountID         string `json:"accountID"`
	AccountName       string `json:"accountName"`
	IsActive          bool   `json:"isActive"`
	InitialBalance    string `json:"initialBalance"`
	CurrentBalance    string `json:"currentBalance"`
	CalculatedBalance string `json:"calculatedBalance"`
	TotalTransactions int64  `json:"totalTransactions"`
	IsConsistent      bool   `json:"isConsistent"`
	Difference        string `json:"difference"`
}

func newReportView(r *service.AuditReport) reportView {
	return reportView{
		AccountID:         r.AccountID.String(),
		AccountName:       r.AccountName,
		IsActive:          r.IsActive,
		InitialBalance:    r.InitialBalance.String(),
		CurrentBalance:    r.CurrentBalance.String(),
		CalculatedBalance: r.CalculatedBalance.String(),
		TotalTransactions: r.TotalTransactions,
		IsConsistent:      r.IsConsistent,
		Difference:        r.Difference.String(),
	}
}

type recalculationView struct {
	AccountID     string `json:"accountID"`
	BalanceBefore string `json:"balanceBefore"`
	BalanceAfter  string `json:"balanceAfter"`
	Correction    string `json:"correction"`
	Corrected     bool   `json:"corrected"`
}

func newRecalculationView(r *service.Recalculation) recalculationView {
	return recalculationView{
		AccountID:     r.AccountID.String(),
		BalanceBefore: r.BalanceBefore.String(),
		BalanceAfter:  r.BalanceAfter.String(),
		Correction:    r.Correction.String(),
		Corrected:     r.Corrected,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReport(w io.Writer, r reportView) {
	marker := okStyle.Render("✓ consistent")
	if !r.IsConsistent {
		marker = driftStyle.Render("✗ drift " + r.Difference)
	}
	name := r.AccountName
	if !r.IsActive {
		name += mutedStyle.Render(" (inactive)")
	}
	fmt.Fprintf(w, "%s  %s  %s\n", marker, r.AccountID, name)
	fmt.Fprintf(w, "    stored %s  calculated %s  initial %s  transactions %d\n",
		r.CurrentBalance, r.CalculatedBalance, r.InitialBalance, r.TotalTransactions)
}

func writeRecalculation(w io.Writer, r recalculationView) {
	if r.Corrected {
		fmt.Fprintf(w, "%s  %s  %s -> %s (%s)\n",
			driftStyle.Render("corrected"), r.AccountID, r.BalanceBefore, r.BalanceAfter, r.Correction)
		return
	}
	fmt.Fprintf(w, "%s  %s  %s\n", okStyle.Render("unchanged"), r.AccountID, r.BalanceAfter)
}
