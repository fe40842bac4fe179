package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// ProxyRenderer renders proxy records
type ProxyRenderer struct {
	out io.Writer
}

func NewProxyRenderer(out io.Writer) *ProxyRenderer {
	return &ProxyRenderer{out: out}
}

// RenderInspection renders a live proxy read
func (r *ProxyRenderer) RenderInspection(result *usecase.InspectProxyResult) error {
	fmt.Fprintf(r.out, "%s %s %s\n",
		sectionHeaderStyle.Sprint("Proxy"),
		addressStyle.Sprint(result.Record.Proxy.Hex()),
		labelStyle.Sprintf("(%s, chain %d)", result.Network, result.ChainID))
	r.RenderRecord(result.Record)
	return nil
}

// RenderRecord renders slots, admin and factory records side by side
func (r *ProxyRenderer) RenderRecord(record *models.ProxyRecord) {
	rows := TableData{
		{labelStyle.Sprint("implementation slot"), record.SlotImplementation.Hex()},
		{labelStyle.Sprint("admin slot"), record.SlotAdmin.Hex()},
		{labelStyle.Sprint("CREATE(proxy, 1)"), record.ExpectedAdmin.Hex()},
		{labelStyle.Sprint("admin owner"), orNone(record.AdminOwner)},
	}
	if record.SlotBeacon != (common.Address{}) {
		rows = append(rows, []string{labelStyle.Sprint("beacon slot"), record.SlotBeacon.Hex()})
	}
	if record.Recorded {
		rows = append(rows,
			[]string{labelStyle.Sprint("factory"), record.Factory.Hex()},
			[]string{labelStyle.Sprint("recorded implementation"), orNone(record.Implementation)},
			[]string{labelStyle.Sprint("recorded admin"), orNone(record.Admin)},
			[]string{labelStyle.Sprint("recorded owner"), orNone(record.Owner)},
		)
	}
	fmt.Fprintln(r.out, renderTable(nil, rows))

	mismatches := record.Mismatches()
	if len(mismatches) == 0 {
		fmt.Fprintln(r.out, FormatSuccess("records and slots agree"))
		return
	}
	for _, m := range mismatches {
		fmt.Fprintln(r.out, FormatWarning(m))
	}
}

func orNone(addr common.Address) string {
	if addr == (common.Address{}) {
		return labelStyle.Sprint("(none)")
	}
	return addr.Hex()
}
