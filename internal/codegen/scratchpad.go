package codegen

// Scratch-pad labels for SPL's intrinsic workspace, ported from
// original_source/spl.py's EQUATES table. These are fixed-purpose
// memory cells reserved by the emitter ahead of user variables:
// op1/op2/res/rem/tmp/sign back library arithmetic routines, and
// dreg/xreg/yreg/ureg each hold the value a register-transfer core
// word moves to or from the user stack.
const (
	ScratchStack  = "stack"
	ScratchOp1    = "op1"
	ScratchOp2    = "op2"
	ScratchRes    = "res"
	ScratchRem    = "rem"
	ScratchTmp    = "tmp"
	ScratchSign   = "sign"
	ScratchDreg   = "dreg"
	ScratchWreg   = "wreg"
	ScratchXreg   = "xreg"
	ScratchYreg   = "yreg"
	ScratchUreg   = "ureg"
	ScratchOutbuf = "outbuf"
	ScratchInbuf  = "inbuf"
)

// ScratchPadOrder fixes the allocation order for every scratch-pad
// cell except ScratchStack, which the emitter sizes and places
// separately (it is the user argument stack region itself, not a
// fixed-size cell).
var ScratchPadOrder = []string{
	ScratchOp1, ScratchOp2, ScratchRes, ScratchRem, ScratchTmp, ScratchSign,
	ScratchDreg, ScratchWreg, ScratchXreg, ScratchYreg, ScratchUreg,
	ScratchOutbuf, ScratchInbuf,
}

// ScratchPadSizes gives each scratch-pad cell's size in bytes, ported
// from original_source/spl.py's EQUATES table (spl.py:126-138): op1
// and op2 hold a double (4 bytes) each, res holds a double product or
// dividend (8 bytes), rem a double remainder (4 bytes), tmp a double
// scratch cell (4 bytes) — sign and the register-transfer cells stay
// word- or byte-sized to match the register they mirror.
var ScratchPadSizes = map[string]int{
	ScratchOp1:    4,
	ScratchOp2:    4,
	ScratchRes:    8,
	ScratchRem:    4,
	ScratchTmp:    4,
	ScratchSign:   1,
	ScratchDreg:   2,
	ScratchWreg:   2,
	ScratchXreg:   2,
	ScratchYreg:   2,
	ScratchUreg:   2,
	ScratchOutbuf: 16,
	ScratchInbuf:  16,
}
