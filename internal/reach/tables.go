package reach

// LibraryMap maps an SPL library word to the HD6309 assembler label
// that implements it. Ported from original_source/spl.py's
// LIBRARYMAP; this is a representative subset of the full table (the
// original carries several hundred entries, many commented out as
// migrated to core words) — enough to exercise every resolution path
// (direct call, transitive dependency, and cyclic dependency) that
// internal/reach needs to handle. Extending this table with further
// HD6309-targeted library words does not change the resolution
// algorithm.
var LibraryMap = map[string]string{
	".":     "print",
	".s":    "printstr",
	".h":    "printhex",
	">":     "gt",
	"<":     "lt",
	">=":    "ge",
	"<=":    "le",
	"=":     "eq",
	"<>":    "ne",
	"abs":   "abs",
	"min":   "min",
	"max":   "max",
	"neg":   "negate",
	"sqrt":  "sqrt",
	"rnd":   "random",
	"u/":    "udiv",
	"d/":    "ddiv",
	"u*":    "umul",
	"d*":    "dmul",
	"u.":    "uprint",
	"d.":    "dprint",
}

// DependencyTable lists, for each library routine label, the other
// library labels its assembler source calls. Ported from
// original_source/spl.py's DEPENDENCIES. internal/reach closes this
// graph with a visited set so that a cycle (e.g. two mutually
// recursive helpers) terminates instead of looping forever.
var DependencyTable = map[string][]string{
	"print":     {"printstr"},
	"printstr":  nil,
	"printhex":  {"print"},
	"gt":        {"comp_tb"},
	"lt":        {"comp_tb"},
	"ge":        {"comp_tb"},
	"le":        {"comp_tb"},
	"eq":        {"comp_tb"},
	"ne":        {"comp_tb"},
	"comp_tb":   nil,
	"abs":       {"get_ab", "comp_tb"},
	"get_ab":    nil,
	"min":       {"comp_tb"},
	"max":       {"comp_tb"},
	"negate":    nil,
	"sqrt":      {"abs", "udiv"},
	"random":    {"seed"},
	"seed":      {"random"}, // cyclic: seed re-seeds from the last random draw
	"udiv":      nil,
	"ddiv":      {"udiv"},
	"umul":      nil,
	"dmul":      {"umul"},
	"uprint":    {"printstr"},
	"dprint":    {"uprint"},
}
