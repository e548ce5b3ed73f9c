package snapshot

import (
	"encoding/json"
	"io"

	"github.com/oisee/z80core/pkg/cpu"
)

// Report is the JSON view of a register file.
type Report struct {
	Cells     map[string]uint8  `json:"cells"`
	Pairs     map[string]uint16 `json:"pairs"`
	Halted    bool              `json:"halted"`
	Alternate bool              `json:"alternate"`
}

// NewReport captures the register file of core. Pairs are read from
// their raw cells, so AF and AF' always name the same cells whatever
// the bank selector says.
func NewReport(core *cpu.Core) Report {
	rep := Report{
		Cells:     make(map[string]uint8, cpu.RegisterCount),
		Pairs:     make(map[string]uint16, cpu.PairCount),
		Halted:    core.Regs.Halted(),
		Alternate: core.Regs.Alternate(),
	}
	for r := cpu.Register(0); r < cpu.RegisterCount; r++ {
		rep.Cells[r.String()] = core.Regs.Cell(r)
	}
	for p := cpu.Pair(0); p < cpu.PairCount; p++ {
		rep.Pairs[p.String()] = core.Regs.RawPair(p)
	}
	return rep
}

// WriteJSON writes the register report of core to w.
func WriteJSON(w io.Writer, core *cpu.Core) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(core))
}
