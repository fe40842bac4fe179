package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ScenarioRenderer renders scenario runs step by step
type ScenarioRenderer struct {
	out     io.Writer
	verbose bool
}

func NewScenarioRenderer(out io.Writer, verbose bool) *ScenarioRenderer {
	return &ScenarioRenderer{out: out, verbose: verbose}
}

func (r *ScenarioRenderer) RenderScenario(result *domain.ScenarioResult) error {
	fmt.Fprintf(r.out, "%s %s\n", sectionHeaderStyle.Sprint("Scenario"), nameStyle.Sprint(result.Name))
	fmt.Fprintf(r.out, "%s %s\n\n", labelStyle.Sprint("factory"), result.Factory)

	for _, step := range result.Steps {
		r.renderStep(step)
	}

	if len(result.Proxies) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Proxies"))
		names := lo.Keys(result.Proxies)
		sort.Strings(names)
		rows := lo.Map(names, func(name string, _ int) []string {
			record := result.Proxies[name]
			status := okStyle.Sprint("consistent")
			if !record.Consistent() {
				status = failStyle.Sprint("mismatch")
			}
			return []string{nameStyle.Sprint(name), record.Proxy.Hex(), record.SlotImplementation.Hex(), record.Owner.Hex(), status}
		})
		fmt.Fprintln(r.out, renderTable([]string{"NAME", "PROXY", "IMPLEMENTATION", "OWNER", "RECORDS"}, rows))
	}

	fmt.Fprintln(r.out)
	failed := lo.CountBy(result.Steps, func(s *domain.StepResult) bool { return !s.Passed })
	if result.Passed {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d step(s) passed", len(result.Steps))))
	} else {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%d of %d step(s) failed", failed, len(result.Steps))))
	}
	return nil
}

func (r *ScenarioRenderer) renderStep(step *domain.StepResult) {
	icon := okStyle.Sprint("✓")
	if !step.Passed {
		icon = failStyle.Sprint("✗")
	}
	fmt.Fprintf(r.out, "%s [%d] %s %s\n", icon, step.Index+1, step.Name, labelStyle.Sprintf("(%s)", actionTitle(step.Action)))

	if tx := step.Tx; tx != nil {
		if tx.ContractAddress != (common.Address{}) && tx.Success {
			fmt.Fprintf(r.out, "    %s %s\n", labelStyle.Sprint("proxy"), tx.ContractAddress.Hex())
		}
		if r.verbose || !step.Passed {
			for _, event := range tx.Events {
				fmt.Fprintf(r.out, "    %s\n", formatEvent(event))
			}
		}
		if tx.Revert != nil {
			fmt.Fprintf(r.out, "    %s %s\n", warnStyle.Sprint("reverted"), tx.Revert.Message)
		}
	}
	if len(step.Returned) > 0 {
		fmt.Fprintf(r.out, "    %s %s\n", labelStyle.Sprint("returned"), strings.Join(step.Returned, ", "))
	}
	if step.Failure != "" {
		fmt.Fprintf(r.out, "    %s\n", failStyle.Sprint(step.Failure))
	}
}

// actionTitle turns change_owner into "Change Owner"
func actionTitle(action domain.StepAction) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(action), "_", " "))
}

func formatEvent(e models.Event) string {
	if e.Name == "" {
		return labelStyle.Sprintf("%s unknown log (%d topics)", e.Address.Hex(), len(e.Topics))
	}
	args := lo.Map(e.Args, func(a models.EventArg, _ int) string {
		return fmt.Sprintf("%s: %s", a.Name, a.Value)
	})
	return fmt.Sprintf("%s.%s(%s)", e.Contract, nameStyle.Sprint(e.Name), strings.Join(args, ", "))
}
