package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"referral-analytics/analytics"
	"referral-analytics/models"
)

// Period - границы отчёта в каноническом виде; пустая строка означает открытую границу.
type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Payload - структурированные данные отчёта, которые получает рассказчик.
type Payload struct {
	Period        Period                     `json:"period"`
	PointsSummary analytics.PointsSummary    `json:"points_summary"`
	TopReferrers  []analytics.RankedReferrer `json:"top_referrers"`
	ChurnRisk     analytics.ChurnReport      `json:"churn_risk"`
	Notifications []models.Notification      `json:"notifications"`
	RawReport     string                     `json:"-"`
}

func periodOf(w analytics.Window) Period {
	var p Period
	if w.Start != nil {
		p.Start = analytics.FormatInstant(*w.Start)
	}
	if w.End != nil {
		p.End = analytics.FormatInstant(*w.End)
	}
	return p
}

func dateLabel(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format("2006-01-02")
}

// FileName - relatorio_indicacoes_<start>_<end>.txt либо ..._completo.txt,
// если хотя бы одна граница открыта.
func FileName(w analytics.Window) string {
	label := "completo"
	if w.Start != nil && w.End != nil {
		label = dateLabel(w.Start, "") + "_" + dateLabel(w.End, "")
	}
	return "relatorio_indicacoes_" + label + ".txt"
}

// RenderRaw собирает «сырой» текстовый отчёт с JSON-блоками.
func RenderRaw(w analytics.Window, p *Payload) (string, error) {
	var b strings.Builder
	b.WriteString("Relatório de Indicações\n")
	fmt.Fprintf(&b, "Período: %s a %s\n\n", dateLabel(w.Start, "Início"), dateLabel(w.End, "Atual"))

	sections := []struct {
		title string
		value any
	}{
		{"Resumo de Pontos:", p.PointsSummary},
		{"Top 5 Usuários que mais indicaram:", p.TopReferrers},
		{"Usuários com risco de churn:", p.ChurnRisk},
		{"Indicações e Notificações:", p.Notifications},
	}
	for _, s := range sections {
		block, err := indentJSON(s.value)
		if err != nil {
			return "", fmt.Errorf("render %q: %w", s.title, err)
		}
		b.WriteString(s.title)
		b.WriteByte('\n')
		b.WriteString(block)
		b.WriteString("\n\n")
	}
	b.WriteString("Fim do Relatório\n")
	return b.String(), nil
}

func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
