// Package letter renders negotiation letters that ask a counterparty to revise
// the risky clauses of an analyzed document.
package letter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"clauselens/internal/analysis"
	"clauselens/internal/model"
)

var (
	ErrNoClauses      = errors.New("no clauses selected")
	ErrUnknownClause  = errors.New("unknown clause")
	ErrSenderRequired = errors.New("sender name is required")
)

// Tone selects the opening and closing paragraphs.
type Tone string

const (
	ToneCollaborative Tone = "collaborative"
	ToneFirm          Tone = "firm"
)

// Request selects what goes into a letter. An empty ClauseIDs selects every
// flagged (high and medium risk) clause.
type Request struct {
	SenderName   string    `json:"sender_name"`
	SenderOrg    string    `json:"sender_org,omitempty"`
	Counterparty string    `json:"counterparty,omitempty"`
	Tone         Tone      `json:"tone,omitempty"`
	ClauseIDs    []string  `json:"clause_ids,omitempty"`
	Date         time.Time `json:"-"`
}

// Letter is a rendered letter in both markdown and HTML.
type Letter struct {
	Subject   string   `json:"subject"`
	ClauseIDs []string `json:"clause_ids"`
	Markdown  string   `json:"markdown"`
	HTML      string   `json:"html"`
}

const letterTemplate = `# {{.Subject}}

{{.Date}}

Dear {{.Counterparty}},

{{.Opening}}
{{range .Clauses}}
## {{.Title}} ({{.Risk.BucketName}} risk)

> {{oneline .Summary}}

{{oneline .Impact}}
{{- if .Issues}}

Specific concerns:
{{range .Issues}}
- {{oneline .}}
{{- end}}
{{- end}}
{{end}}
{{.Closing}}

Sincerely,

{{.SenderName}}
{{- if .SenderOrg}}  
{{.SenderOrg}}
{{- end}}
`

var tones = map[Tone][2]string{
	ToneCollaborative: {
		"Thank you for sharing %s. Before we sign, we would like to discuss the clauses below, which we believe would benefit from revision.",
		"We are confident these points can be resolved together and look forward to your proposed changes.",
	},
	ToneFirm: {
		"We have reviewed %s and cannot accept it in its current form. The clauses below must be revised before we can proceed.",
		"Please send a revised draft addressing each of these points.",
	},
}

// Renderer renders letters. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

// NewRenderer parses the letter template and configures GitHub-flavored markdown.
func NewRenderer() *Renderer {
	funcs := template.FuncMap{
		"oneline": func(s string) string { return strings.Join(strings.Fields(s), " ") },
	}
	return &Renderer{
		tmpl: template.Must(template.New("letter").Funcs(funcs).Parse(letterTemplate)),
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

type view struct {
	Subject      string
	Date         string
	Counterparty string
	Opening      string
	Closing      string
	SenderName   string
	SenderOrg    string
	Clauses      []model.Clause
}

// Render builds a letter for the selected clauses of a, listed in ranked order.
func (r *Renderer) Render(a model.DocumentAnalysis, req Request) (*Letter, error) {
	sender := strings.TrimSpace(req.SenderName)
	if sender == "" {
		return nil, ErrSenderRequired
	}

	clauses, err := selectClauses(a.Clauses, req.ClauseIDs)
	if err != nil {
		return nil, err
	}
	clauses = analysis.Rank(clauses, "")

	tone, ok := tones[req.Tone]
	if !ok {
		tone = tones[ToneCollaborative]
	}
	counterparty := strings.TrimSpace(req.Counterparty)
	if counterparty == "" {
		counterparty = "Sir or Madam"
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	docName := a.DocumentName
	if docName == "" {
		docName = "the document"
	}

	v := view{
		Subject:      "Requested revisions to " + docName,
		Date:         date.Format("January 2, 2006"),
		Counterparty: counterparty,
		Opening:      fmt.Sprintf(tone[0], docName),
		Closing:      tone[1],
		SenderName:   sender,
		SenderOrg:    strings.TrimSpace(req.SenderOrg),
		Clauses:      clauses,
	}

	var md bytes.Buffer
	if err := r.tmpl.Execute(&md, v); err != nil {
		return nil, fmt.Errorf("render letter: %w", err)
	}
	var html bytes.Buffer
	if err := r.md.Convert(md.Bytes(), &html); err != nil {
		return nil, fmt.Errorf("convert letter: %w", err)
	}

	ids := make([]string, 0, len(clauses))
	for _, c := range clauses {
		ids = append(ids, c.ID)
	}
	return &Letter{Subject: v.Subject, ClauseIDs: ids, Markdown: md.String(), HTML: html.String()}, nil
}

func selectClauses(all []model.Clause, ids []string) ([]model.Clause, error) {
	if len(ids) == 0 {
		out := make([]model.Clause, 0, len(all))
		for _, c := range all {
			if c.Risk == model.RiskHigh || c.Risk == model.RiskMedium {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			return nil, ErrNoClauses
		}
		return out, nil
	}

	byID := make(map[string]model.Clause, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	seen := make(map[string]bool, len(ids))
	out := make([]model.Clause, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownClause, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, c)
	}
	return out, nil
}
