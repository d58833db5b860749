package substage_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/mixture"
	"github.com/san-kum/lmpflow/internal/spec"
	"github.com/san-kum/lmpflow/internal/substage"
)

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

var _ = Describe("stage composition", func() {
	var (
		composer *compile.Composer
		mix      mixture.Context
	)

	BeforeEach(func() {
		composer = compile.NewComposer(substage.DefaultRegistry())
		mix = mixture.Context{Index: 1, Seed: mixture.DeriveSeed(42, 1)}
	})

	equilibration := spec.Stage{
		Name: "equilibration",
		Substages: []spec.Substage{
			{Name: spec.KindInitialize},
			{Name: spec.KindMinimize},
			{Name: spec.KindVelocities, Params: spec.Params{"temp": 298.15, "seed": 1234}},
			{Name: spec.KindNVT, Params: spec.Params{"nrun": 5000}},
			{Name: spec.KindMinimize},
		},
	}

	It("composes a full equilibration stage with balanced resources", func() {
		res, err := composer.Compose(equilibration, 1, mix)
		Expect(err).NotTo(HaveOccurred())

		lines := res.Doc.Lines()
		Expect(countPrefix(lines, "fix ")).To(Equal(countPrefix(lines, "unfix ")))
		Expect(countPrefix(lines, "dump ")).To(Equal(countPrefix(lines, "undump ")))
		Expect(countPrefix(lines, "fix ")).To(BeNumerically(">", 0))

		Expect(res.Doc.Render()).To(ContainSubstring("velocity"))
		Expect(res.Doc.Render()).To(ContainSubstring("1234"))
		Expect(res.Doc.Render()).To(MatchRegexp(`(?m)^run\s+5000$`))
	})

	It("names trajectory artifacts by stage and substage position", func() {
		res, err := composer.Compose(equilibration, 2, mix)
		Expect(err).NotTo(HaveOccurred())
		// The final minimize is substage 5 of stage 2.
		Expect(res.LastTrajectory).To(Equal("2.5_minimization.lammpstrj"))
	})

	It("continues later stages from the previous stage's configuration", func() {
		first, err := composer.Compose(equilibration, 1, mix)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Doc.Render()).NotTo(ContainSubstring("read_dump"))

		second, err := composer.Compose(equilibration, 2, mix)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Doc.Render()).To(ContainSubstring("read_data"))
		Expect(second.Doc.Render()).To(MatchRegexp(`(?m)^read_dump\s+last\.lammpstrj 0 x y z box yes$`))
	})

	It("declares the run-wide setup exactly once per script", func() {
		res, err := composer.Compose(equilibration, 1, mix)
		Expect(err).NotTo(HaveOccurred())
		lines := res.Doc.Lines()
		Expect(countPrefix(lines, "units ")).To(Equal(1))
		Expect(countPrefix(lines, "echo ")).To(Equal(1))
		Expect(countPrefix(lines, "atom_style ")).To(Equal(1))
	})

	It("rejects a stage that does not start with initialize", func() {
		bad := spec.Stage{
			Name: "deform-first",
			Substages: []spec.Substage{
				{Name: spec.KindDeformation, Params: spec.Params{"axis": "x"}},
			},
		}
		_, err := composer.Compose(bad, 1, mix)
		var se *spec.SpecificationError
		Expect(errors.As(err, &se)).To(BeTrue(), "got %v", err)
	})

	It("rejects an unregistered substage kind", func() {
		bad := spec.Stage{
			Name: "typo",
			Substages: []spec.Substage{
				{Name: spec.KindInitialize},
				{Name: "nvtt"},
			},
		}
		_, err := composer.Compose(bad, 1, mix)
		var ue *compile.UnknownSubstageError
		Expect(errors.As(err, &ue)).To(BeTrue(), "got %v", err)
	})

	It("rejects an unknown substage parameter", func() {
		bad := spec.Stage{
			Name: "typo-param",
			Substages: []spec.Substage{
				{Name: spec.KindInitialize},
				{Name: spec.KindNVT, Params: spec.Params{"temprature": 300.0}},
			},
		}
		_, err := composer.Compose(bad, 1, mix)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("temprature"))
	})

	It("produces replica scripts that differ only in seeded tokens", func() {
		seeded := spec.Stage{
			Name: "seeded",
			Substages: []spec.Substage{
				{Name: spec.KindInitialize},
				{Name: spec.KindVelocities}, // seed defaults to the mixture seed
				{Name: spec.KindNVT, Params: spec.Params{"nrun": 1000}},
			},
		}
		mixA := mixture.Context{Index: 1, Seed: mixture.DeriveSeed(42, 1)}
		mixB := mixture.Context{Index: 2, Seed: mixture.DeriveSeed(42, 2)}

		resA, err := composer.Compose(seeded, 1, mixA)
		Expect(err).NotTo(HaveOccurred())
		resB, err := composer.Compose(seeded, 1, mixB)
		Expect(err).NotTo(HaveOccurred())

		linesA := resA.Doc.Lines()
		linesB := resB.Doc.Lines()
		Expect(linesA).To(HaveLen(len(linesB)))

		for i := range linesA {
			if linesA[i] == linesB[i] {
				continue
			}
			// Differing lines must carry a replica-specific token.
			Expect(linesA[i]).To(Or(
				ContainSubstring("mixture 1"),
				ContainSubstring("seed"),
				ContainSubstring("velocity"),
			), "unexpected divergence at line %d: %q vs %q", i, linesA[i], linesB[i])
		}
	})

	It("is deterministic for a fixed replica", func() {
		resA, err := composer.Compose(equilibration, 1, mix)
		Expect(err).NotTo(HaveOccurred())
		resB, err := composer.Compose(equilibration, 1, mix)
		Expect(err).NotTo(HaveOccurred())
		Expect(resA.Doc.Render()).To(Equal(resB.Doc.Render()))
	})

	It("composes a pressure stage with box resizing", func() {
		st := spec.Stage{
			Name: "compress",
			Substages: []spec.Substage{
				{Name: spec.KindInitialize},
				{Name: spec.KindVelocities, Params: spec.Params{"seed": 99}},
				{Name: spec.KindNPT, Params: spec.Params{
					"pres_initial": 1000.0,
					"pres_final":   1000.0,
					"nrun":         20000,
					"box_resize":   substage.BoxAverage,
				}},
			},
		}
		res, err := composer.Compose(st, 1, mix)
		Expect(err).NotTo(HaveOccurred())
		out := res.Doc.Render()
		Expect(out).To(ContainSubstring("npt"))
		Expect(out).To(ContainSubstring("change_box"))
		lines := res.Doc.Lines()
		Expect(countPrefix(lines, "fix ")).To(Equal(countPrefix(lines, "unfix ")))
	})

	It("composes a deformation stage with walls and a strain-rate variable", func() {
		st := spec.Stage{
			Name: "pullout",
			Substages: []spec.Substage{
				{Name: spec.KindInitialize},
				{Name: spec.KindVelocities, Params: spec.Params{"seed": 7}},
				{Name: spec.KindDeformation, Params: spec.Params{
					"axis": "z",
					"nrun": 50000,
				}},
			},
		}
		res, err := composer.Compose(st, 1, mix)
		Expect(err).NotTo(HaveOccurred())
		out := res.Doc.Render()
		Expect(out).To(ContainSubstring("strainrate"))
		Expect(out).To(ContainSubstring("indent"))
		Expect(out).To(ContainSubstring("deform"))
		lines := res.Doc.Lines()
		Expect(countPrefix(lines, "fix ")).To(Equal(countPrefix(lines, "unfix ")))
		Expect(countPrefix(lines, "dump ")).To(Equal(countPrefix(lines, "undump ")))
	})

	It("derives the deformation target from the job's density goal", func() {
		st := spec.Stage{
			Name: "densify",
			Substages: []spec.Substage{
				{Name: spec.KindInitialize},
				{Name: spec.KindDeformation, Params: spec.Params{"axis": "z"}},
			},
		}
		dense := mixture.Context{Index: 1, Seed: 7, FinalDensity: 950}
		res, err := composer.Compose(st, 1, dense)
		Expect(err).NotTo(HaveOccurred())
		// 950 kg/m3 is 0.95 in the engine's density unit.
		Expect(res.Doc.Render()).To(ContainSubstring("ln((lz*v_sysdensity/0.95)/lz)"))

		// An explicit final_length overrides the density-derived target.
		st.Substages[1].Params["final_length"] = 25.0
		res, err = composer.Compose(st, 1, dense)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Doc.Render()).To(ContainSubstring("ln(25/lz)"))
		Expect(res.Doc.Render()).NotTo(ContainSubstring("v_sysdensity/0.95"))
	})

	It("rejects a deformation axis outside x, y, z", func() {
		st := spec.Stage{
			Name: "bad-axis",
			Substages: []spec.Substage{
				{Name: spec.KindInitialize},
				{Name: spec.KindDeformation, Params: spec.Params{"axis": "w"}},
			},
		}
		_, err := composer.Compose(st, 1, mix)
		Expect(err).To(HaveOccurred())
	})
})
