package main

import (
	"encoding/json"
	"fmt"
	"math/cmplx"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/mmwave/internal/qmath"
	"github.com/san-kum/mmwave/internal/spinchain"
)

var (
	chainSites   int
	chainTerms   []string
	chainTargets []string
	chainPBC     bool
	chainTime    float64
	chainSteps   []float64
	chainLevels  int
	chainBonds   bool
)

func chainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "spin chain spectra and Floquet Hamiltonians",
		Long: `Builds a spin-1/2 chain from interaction terms written op:strength:range.

op is a string of x, y, z, + and - factors, one per site of the range.
range is nn, nnn, inf (on-site) or a power-law exponent. Comma-separated
strengths give one value per pulse step for --steps.`,
		Example: `  mmwave chain --sites 4 --term xx:1:nn --term yy:1:nn --term z:0.3:inf
  mmwave chain --sites 2 --term z:0.1,0.5:inf --steps 1,3 --target z:0.4:inf`,
		RunE: runChain,
	}
	cmd.Flags().IntVar(&chainSites, "sites", 2, fmt.Sprintf("number of sites (1..%d)", spinchain.MaxSites))
	cmd.Flags().StringArrayVar(&chainTerms, "term", nil, "interaction term op:strength:range (repeatable)")
	cmd.Flags().StringArrayVar(&chainTargets, "target", nil, "target Hamiltonian term to compare against (repeatable)")
	cmd.Flags().BoolVar(&chainPBC, "pbc", false, "periodic boundary conditions for nn and nnn terms")
	cmd.Flags().Float64Var(&chainTime, "time", 0, "time (step index) at which strengths are evaluated")
	cmd.Flags().Float64SliceVar(&chainSteps, "steps", nil, "pulse step durations; non-positive entries are delta pulses")
	cmd.Flags().IntVar(&chainLevels, "show", 8, "number of eigenvalues to print")
	cmd.Flags().BoolVar(&chainBonds, "bonds", false, "print the evaluated bonds as JSON")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}

func buildChain(specs []string) (*spinchain.Graph, error) {
	terms := make([]spinchain.Term, 0, len(specs))
	for _, s := range specs {
		t, err := spinchain.ParseTerm(s)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return spinchain.FromInteractions(chainSites, terms, chainPBC)
}

func runChain(cmd *cobra.Command, args []string) error {
	g, err := buildChain(chainTerms)
	if err != nil {
		return err
	}
	d := spinchain.NewDiagonalizer(g, log)

	if chainBonds {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(g.At(chainTime))
	}

	var h *qmath.Matrix
	title := fmt.Sprintf("hamiltonian at t=%g", chainTime)
	if len(chainSteps) > 0 {
		params := make([]float64, len(chainSteps))
		for k := range params {
			params[k] = float64(k)
		}
		if h, err = d.FloquetHamiltonian(params, chainSteps); err != nil {
			return err
		}
		title = fmt.Sprintf("floquet hamiltonian of %d steps", len(chainSteps))
	} else {
		h = d.Hamiltonian(chainTime)
	}

	vals, vecs, err := qmath.EigenHermitian(h)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d sites, dimension %d, ops %v\n\n", title, g.Sites(), g.Dim(), g.Ops())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K\tENERGY\t")
	for k := 0; k < len(vals) && k < chainLevels; k++ {
		fmt.Fprintf(w, "%d\t%.10f\t\n", k, vals[k])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nlowest state, largest amplitudes:\n")
	printState(column(vecs, 0), g.Sites())

	if len(chainTargets) == 0 {
		return nil
	}
	tg, err := buildChain(chainTargets)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	target := spinchain.Hamiltonian(tg, chainTime)
	frob, err := spinchain.FrobeniusLoss(h, target)
	if err != nil {
		return err
	}
	ident, err := spinchain.NormIdentityLoss(h, target)
	if err != nil {
		return err
	}
	fmt.Printf("\nfrobenius loss: %.6g\nidentity loss: %.6g\n", frob, ident)
	return nil
}

func column(m *qmath.Matrix, k int) []complex128 {
	out := make([]complex128, m.Dim())
	for i := range out {
		out[i] = m.At(i, k)
	}
	return out
}

// printState lists the largest basis amplitudes with up/down labels.
func printState(psi []complex128, sites int) {
	idx := make([]int, len(psi))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return cmplx.Abs(psi[idx[a]]) > cmplx.Abs(psi[idx[b]]) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, i := range idx[:min(4, len(idx))] {
		if cmplx.Abs(psi[i]) < 1e-9 {
			break
		}
		label := make([]byte, sites)
		for s := 0; s < sites; s++ {
			label[s] = '^'
			if i>>(sites-1-s)&1 == 1 {
				label[s] = 'v'
			}
		}
		fmt.Fprintf(w, "  |%s>\t%.6f%+.6fi\n", label, real(psi[i]), imag(psi[i]))
	}
	w.Flush()
}
