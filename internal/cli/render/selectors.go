package render

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
)

// SelectorsRenderer renders selector tables grouped by contract
type SelectorsRenderer struct {
	out io.Writer
}

func NewSelectorsRenderer(out io.Writer) *SelectorsRenderer {
	return &SelectorsRenderer{out: out}
}

func (r *SelectorsRenderer) RenderSelectors(selectors []models.Selector) error {
	if len(selectors) == 0 {
		fmt.Fprintln(r.out, "No selectors")
		return nil
	}

	groups := lo.GroupBy(selectors, func(s models.Selector) string { return s.Contract })
	contracts := lo.Uniq(lo.Map(selectors, func(s models.Selector, _ int) string { return s.Contract }))
	for i, contract := range contracts {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint(contract))
		rows := lo.Map(groups[contract], func(s models.Selector, _ int) []string {
			return []string{labelStyle.Sprint(s.Kind), s.ID, s.Signature}
		})
		fmt.Fprintln(r.out, renderTable(nil, rows))
	}
	return nil
}
