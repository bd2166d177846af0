package rtl

// The demo DUT: a minimal 16-bit processor with 8 general registers, a
// word-addressed instruction store (ROM) and a small word-addressed data
// store modeled as individually named register words. It is a validation
// fixture for the analyzer, nothing more; architectural correctness beyond
// "deterministic and stateful" is not a goal.
//
// Instruction encoding, 16 bits:
//
//	op[15:12] rd[11:9] rs[8:6] rt[5:3]   register forms
//	op[15:12] rd[11:9] imm[8:0]          immediate forms
const (
	opNOP = iota
	opLDI // rd := imm
	opADD // rd := rs + rt
	opSUB // rd := rs - rt
	opAND // rd := rs & rt
	opOR  // rd := rs | rt
	opXOR // rd := rs ^ rt
	opMOV // rd := rs
	opLD  // rd := dmem[rs & 7]
	opST  // dmem[rs & 7] := rt
	opBNZ // if rs != 0 then pc := imm
	opJMP // pc := imm
)

func enc3(op, rd, rs, rt int) uint64 {
	return uint64(op)<<12 | uint64(rd&7)<<9 | uint64(rs&7)<<6 | uint64(rt&7)<<3
}

func encImm(op, rd, imm int) uint64 {
	return uint64(op)<<12 | uint64(rd&7)<<9 | uint64(imm&0x1ff)
}

func fieldOp(w uint64) int  { return int(w >> 12 & 0xf) }
func fieldRd(w uint64) int  { return int(w >> 9 & 7) }
func fieldRs(w uint64) int  { return int(w >> 6 & 7) }
func fieldRt(w uint64) int  { return int(w >> 3 & 7) }
func fieldImm(w uint64) int { return int(w & 0x1ff) }

// CPUClockPeriod is the demo clock period in simulation steps.
const CPUClockPeriod = 10

// CPUClock and CPUReset are the demo fixture's domain signals. The reset
// is active-low, matching the usual rst_n convention.
const (
	CPUClock = "cpu.clk"
	CPUReset = "cpu.rst_n"
)

var gprNames = [8]string{
	"cpu.r0", "cpu.r1", "cpu.r2", "cpu.r3",
	"cpu.r4", "cpu.r5", "cpu.r6", "cpu.r7",
}

var dmemNames = [8]string{
	"cpu.d0", "cpu.d1", "cpu.d2", "cpu.d3",
	"cpu.d4", "cpu.d5", "cpu.d6", "cpu.d7",
}

// demoProgram loops forever, exercising ALU, memory and branch paths so
// the dependency graph has both a feedback core and pure sink registers.
var demoProgram = []uint64{
	encImm(opLDI, 1, 1),    // r1 := 1
	encImm(opLDI, 2, 3),    // r2 := 3
	enc3(opADD, 3, 3, 1),   // r3 := r3 + r1
	enc3(opST, 0, 1, 3),    // dmem[r1] := r3
	enc3(opLD, 4, 1, 0),    // r4 := dmem[r1]
	enc3(opSUB, 5, 2, 4),   // r5 := r2 - r4
	encImm(opBNZ, 5, 2),    // if r5 != 0 then pc := 2 (rs rides in the rd slot)
	enc3(opXOR, 6, 4, 2),   // r6 := r4 ^ r2
	enc3(opMOV, 7, 6, 0),   // r7 := r6
	encImm(opJMP, 0, 2),    // pc := 2
}

// NewCPU builds the demo processor circuit at time zero.
func NewCPU(opts ...Option) *Circuit {
	d := NewDesign()
	d.AddClock(CPUClock, CPUClockPeriod)
	d.AddInput(CPUReset, 1, 1) // deasserted unless forced low

	rom := make([]uint64, len(demoProgram))
	copy(rom, demoProgram)

	d.AddComb(CombSpec{
		Name: "cpu.instr",
		Bits: 16,
		Eval: func(get Getter) uint64 {
			return rom[int(get("cpu.pc"))%len(rom)]
		},
	})

	alu := func(op int, a, b uint64) uint64 {
		switch op {
		case opADD:
			return a + b
		case opSUB:
			return a - b
		case opAND:
			return a & b
		case opOR:
			return a | b
		case opXOR:
			return a ^ b
		default:
			return a
		}
	}

	d.AddReg(RegSpec{
		Name: "cpu.pc", Bits: 16, Clock: CPUClock,
		Reset: CPUReset, ActiveLow: true,
		Next: func(get Getter) uint64 {
			w := get("cpu.instr")
			pc := get("cpu.pc")
			switch fieldOp(w) {
			case opJMP:
				return uint64(fieldImm(w))
			case opBNZ:
				if get(gprNames[fieldRd(w)]) != 0 {
					return uint64(fieldImm(w))
				}
			}
			return pc + 1
		},
	})

	for i := range gprNames {
		idx := i
		d.AddReg(RegSpec{
			Name: gprNames[idx], Bits: 16, Clock: CPUClock,
			Reset: CPUReset, ActiveLow: true,
			Next: func(get Getter) uint64 {
				w := get("cpu.instr")
				op := fieldOp(w)
				cur := get(gprNames[idx])
				if op == opNOP || op == opST || op == opBNZ || op == opJMP || fieldRd(w) != idx {
					return cur
				}
				switch op {
				case opLDI:
					return uint64(fieldImm(w))
				case opMOV:
					return get(gprNames[fieldRs(w)])
				case opLD:
					return get(dmemNames[int(get(gprNames[fieldRs(w)]))&7])
				default:
					return alu(op, get(gprNames[fieldRs(w)]), get(gprNames[fieldRt(w)]))
				}
			},
		})
	}

	for i := range dmemNames {
		idx := i
		d.AddReg(RegSpec{
			Name: dmemNames[idx], Bits: 16, Clock: CPUClock,
			Reset: CPUReset, ActiveLow: true,
			Next: func(get Getter) uint64 {
				w := get("cpu.instr")
				if fieldOp(w) == opST && int(get(gprNames[fieldRs(w)]))&7 == idx {
					return get(gprNames[fieldRt(w)])
				}
				return get(dmemNames[idx])
			},
		})
	}

	return d.Build(opts...)
}
