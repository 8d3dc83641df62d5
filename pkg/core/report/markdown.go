package report

import (
	"bytes"
	"fmt"

	"stock_dashboard/pkg/core/utils"
	"stock_dashboard/pkg/models"

	md "github.com/nao1215/markdown"
)

// Markdown renders the page as a report with the dashboard's three tabs as
// sections.
func Markdown(p *models.Page) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	ticker := p.Request.Ticker
	if ticker == "" {
		ticker = "Stock"
	}
	doc.H1(fmt.Sprintf("%s Stock Dashboard", ticker))
	doc.PlainText(fmt.Sprintf("Range: %s to %s",
		p.Request.Start.Format("2006-01-02"), p.Request.End.Format("2006-01-02")))

	writeNotices(doc, p.NoticesFor(models.TabInput))

	doc.H2("Pricing Data")
	writeNotices(doc, p.NoticesFor(models.TabPricing))
	if p.Stats != nil && !p.Prices.Empty() {
		doc.PlainText(fmt.Sprintf("Price column: %s (%d trading days)", p.PriceColumn, len(p.Prices.Bars)))
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Metric", "Value"},
			Rows: [][]string{
				{"Annual Return", FormatPercent(p.Stats.AnnualReturn)},
				{"Standard Deviation", FormatPercent(p.Stats.StdDev * 100)},
				{"Risk Adj. Return", FormatFloat(p.Stats.RiskAdjReturn, 4)},
			},
		})
	}

	doc.H2("Fundamental Data")
	writeNotices(doc, p.NoticesFor(models.TabFundamentals))
	for _, st := range p.Statements {
		doc.H3(st.Title)
		if st.Empty() {
			doc.PlainText("No data.")
			continue
		}
		align := make([]md.TableAlignment, len(st.Columns))
		for i := range align {
			align[i] = md.AlignRight
		}
		align[0] = md.AlignLeft

		rows := make([][]string, 0, len(st.Rows))
		for _, r := range st.Rows {
			row := make([]string, len(r))
			row[0] = r[0]
			for i := 1; i < len(r); i++ {
				row[i] = FormatAmount(r[i], st.Currency)
			}
			rows = append(rows, row)
		}
		doc.Table(md.TableSet{Alignment: align, Header: st.Columns, Rows: rows})
	}

	doc.H2(fmt.Sprintf("News of %s", ticker))
	writeNotices(doc, p.NoticesFor(models.TabNews))
	if len(p.News) > 0 {
		items := make([]string, 0, len(p.News))
		for _, n := range p.News {
			title := n.Title
			if n.Link != "" {
				title = fmt.Sprintf("[%s](%s)", n.Title, n.Link)
			}
			items = append(items, fmt.Sprintf("%s (%s). Title sentiment %s, news sentiment %s",
				title, n.PublishedRaw, FormatFloat(n.TitleSentiment, 2), FormatFloat(n.SummarySentiment, 2)))
		}
		doc.OrderedList(items...)
	}

	return doc.String()
}

// HTML renders the page report as an HTML fragment.
func HTML(p *models.Page) (string, error) {
	return utils.MarkdownToHTML(Markdown(p))
}

func writeNotices(doc *md.Markdown, notices []models.Notice) {
	for _, n := range notices {
		label := "Warning"
		if n.Level == models.LevelError {
			label = "Error"
		}
		doc.PlainText(md.Bold(label+":") + " " + n.Message)
	}
}
