// Package substage holds the generator library: one compile function per
// supported substage kind, registered into a compile.Registry at startup.
package substage

import (
	"strconv"
	"strings"
)

// derivedVariable pairs an engine-side variable name with the expression the
// engine evaluates at run time.
type derivedVariable struct {
	name string
	expr string
}

// derivedVariables is the full derived-quantity set declared by Initialize
// and referenced by every later substage: volume, density, cell geometry,
// stress components, timing. Order is load-bearing: cellalpha refers to
// cellb/cellc, sysdensity to sysmass/sysvol.
var derivedVariables = []derivedVariable{
	{"R", "0.00198722"},
	{"sysvol", "vol"},
	{"sysmass", "mass(all)/6.0221367e+023"},
	{"sysdensity", "v_sysmass/v_sysvol/1.0e-24"},
	{"coulomb", "ecoul+elong"},
	{"etotal", "etotal"},
	{"pe", "pe"},
	{"ke", "ke"},
	{"evdwl", "evdwl"},
	{"epair", "epair"},
	{"ebond", "ebond"},
	{"eangle", "eangle"},
	{"edihed", "edihed"},
	{"eimp", "eimp"},
	{"lx", "lx"},
	{"ly", "ly"},
	{"lz", "lz"},
	{"xhi", "xhi"},
	{"yhi", "yhi"},
	{"zhi", "zhi"},
	{"xlo", "xlo"},
	{"ylo", "ylo"},
	{"zlo", "zlo"},
	{"Nthermo", "0"},
	{"cella", "lx"},
	{"cellb", "sqrt(ly*ly+xy*xy)"},
	{"cellc", "sqrt(lz*lz+xz*xz+yz*yz)"},
	{"cellalpha", "acos((xy*xz+ly*yz)/(v_cellb*v_cellc))"},
	{"cellbeta", "acos(xz/v_cellc)"},
	{"cellgamma", "acos(xy/v_cellb)"},
	{"p", "press"},
	{"pxx", "pxx"},
	{"pyy", "pyy"},
	{"pzz", "pzz"},
	{"pyz", "pyz"},
	{"pxz", "pxz"},
	{"pxy", "pxy"},
	{"sxx", "-pxx"},
	{"syy", "-pyy"},
	{"szz", "-pzz"},
	{"syz", "-pyz"},
	{"sxz", "-pxz"},
	{"sxy", "-pxy"},
	{"fmax", "fmax"},
	{"fnorm", "fnorm"},
	{"time", "step*dt+0.000001"},
}

// thermoProperties is the per-step log column list for dynamics substages.
// Column order is part of the postprocessing contract.
var thermoProperties = []string{
	"step", "v_time", "press", "vol", "v_sysdensity", "temp",
	"ebond", "eangle", "edihed", "eimp", "evdwl", "ecoul", "etail",
	"elong", "pe", "ke",
}

// minimizeThermoProperties is the log column list during minimization.
var minimizeThermoProperties = []string{
	"step", "fmax", "fnorm", "press", "vol", "v_sysdensity",
	"v_sxx", "v_syy", "v_szz", "v_syz", "v_sxz", "v_sxy", "pe",
	"v_cella", "v_cellb", "v_cellc", "v_cellalpha", "v_cellbeta", "v_cellgamma",
}

// dumpProperties is the per-atom record of every trajectory writer.
var dumpProperties = []string{"id", "mol", "type", "q", "xs", "ys", "zs"}

// sampleProperties is the column list of the time-averaged sample file each
// dynamics substage writes.
var sampleProperties = []string{
	"v_time", "c_thermo_temp", "c_thermo_press", "v_sysvol", "v_sysdensity",
	"v_cella", "v_cellb", "v_cellc", "v_etotal", "v_pe", "v_ke", "v_evdwl",
	"v_coulomb", "v_sxx", "v_syy", "v_szz", "v_syz", "v_sxz", "v_sxy",
	"v_xhi", "v_yhi", "v_zhi", "v_xlo", "v_ylo", "v_zlo",
}

// referencedVariables extracts the declared-variable names a property list
// depends on (the v_-prefixed columns).
func referencedVariables(props []string) []string {
	var out []string
	for _, p := range props {
		if name, ok := strings.CutPrefix(p, "v_"); ok {
			out = append(out, name)
		}
	}
	return out
}

// ff renders a float the way arguments are rendered in directive lines, for
// use inside symbolic expressions.
func ff(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
