package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
)

// PredictionRenderer renders derived addresses
type PredictionRenderer struct {
	out io.Writer
}

func NewPredictionRenderer(out io.Writer) *PredictionRenderer {
	return &PredictionRenderer{out: out}
}

func (r *PredictionRenderer) RenderPrediction(p *models.Prediction) error {
	fmt.Fprintf(r.out, "%s %s\n", nameStyle.Sprint(p.Mode), addressStyle.Sprint(p.Address.Hex()))

	rows := TableData{
		{labelStyle.Sprint("deployer"), p.Deployer.Hex()},
	}
	if p.Nonce != nil {
		rows = append(rows, []string{labelStyle.Sprint("nonce"), fmt.Sprint(*p.Nonce)})
	}
	if p.Salt != nil {
		rows = append(rows, []string{labelStyle.Sprint("salt"), p.Salt.Hex()})
	}
	if p.InitCodeHash != nil {
		rows = append(rows, []string{labelStyle.Sprint("init code hash"), p.InitCodeHash.Hex()})
	}
	rows = append(rows, []string{labelStyle.Sprint("preimage"), hexutil.Encode(p.Preimage)})
	fmt.Fprintln(r.out, renderTable(nil, rows))

	if p.SaltPermitted != nil {
		if *p.SaltPermitted {
			fmt.Fprintln(r.out, FormatSuccess("salt is usable by the caller"))
		} else {
			fmt.Fprintln(r.out, FormatWarning("salt is bound to another address; the factory will reject it"))
		}
	}
	return nil
}
