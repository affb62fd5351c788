package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/uulm-janbaudisch/cryptominisat/solver"
)

type matricesOpts struct {
	minXors        int
	maxXors        int
	minRows        int
	maxRows        int
	maxColumns     int
	maxNumMatrices int
	noMatrixFind   bool
	samplingVars   []int
}

var matricesopts = matricesOpts{}

func NewMatricesCmd() *cobra.Command {
	matricesCmd := &cobra.Command{
		Use:   "matrices <file.cnf>",
		Short: "partitions the XOR constraints of an extended DIMACS file into matrices",
		Long:  `reads the given extended DIMACS file, groups its "x" constraints into variable-disjoint components and reports which components would be kept as Gaussian elimination matrices`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			pb, err := solver.ParseCNF(f)
			if err != nil {
				return fmt.Errorf("could not parse problem: %v", err)
			}
			logrus.Infof("parsed %d vars, %d clauses, %d xor constraints", pb.NbVars, len(pb.Clauses), len(pb.Xors))
			if pb.Status == solver.Unsat {
				fmt.Println("s UNSATISFIABLE")
				return nil
			}

			s := solver.New(pb)
			s.Gauss.MinGaussXorClauses = matricesopts.minXors
			s.Gauss.MaxGaussXorClauses = matricesopts.maxXors
			s.Gauss.MinMatrixRows = matricesopts.minRows
			s.Gauss.MaxMatrixRows = matricesopts.maxRows
			s.Gauss.MaxMatrixColumns = matricesopts.maxColumns
			s.Gauss.MaxNumMatrices = matricesopts.maxNumMatrices
			s.Gauss.DoMatrixFind = !matricesopts.noMatrixFind
			if len(matricesopts.samplingVars) > 0 {
				for _, v := range matricesopts.samplingVars {
					if v < 1 {
						return fmt.Errorf("invalid sampling variable %d: variables are numbered from 1", v)
					}
				}
				s.SamplingVars = matricesopts.samplingVars
			}

			created, ok := s.FindMatrices()
			if !ok {
				fmt.Println("s UNSATISFIABLE")
				return nil
			}
			if !created {
				fmt.Println("c no matrix created")
			}
			for _, m := range s.Matrices() {
				fmt.Printf("c matrix %2d: %7d x %5d\n", m.Num(), m.Rows(), m.Cols())
			}
			fmt.Printf("c %d matrices, %d xor constraints left in the plain pool\n",
				len(s.Matrices()), len(s.XorClauses()))
			return nil
		},
	}

	defaults := solver.DefaultGaussConf()
	matricesCmd.Flags().IntVar(&matricesopts.minXors, "min-xors", defaults.MinGaussXorClauses, "minimum number of xor constraints for attempting matrix finding")
	matricesCmd.Flags().IntVar(&matricesopts.maxXors, "max-xors", defaults.MaxGaussXorClauses, "maximum number of xor constraints when sampling vars are set")
	matricesCmd.Flags().IntVar(&matricesopts.minRows, "min-rows", defaults.MinMatrixRows, "row floor below which a component is rejected")
	matricesCmd.Flags().IntVar(&matricesopts.maxRows, "max-rows", defaults.MaxMatrixRows, "row ceiling above which a component is rejected")
	matricesCmd.Flags().IntVar(&matricesopts.maxColumns, "max-columns", defaults.MaxMatrixColumns, "column ceiling above which a component is rejected")
	matricesCmd.Flags().IntVar(&matricesopts.maxNumMatrices, "max-matrices", defaults.MaxNumMatrices, "maximum number of matrices to accept")
	matricesCmd.Flags().BoolVar(&matricesopts.noMatrixFind, "no-matrix-find", !defaults.DoMatrixFind, "disable matrix finding")
	matricesCmd.Flags().IntSliceVar(&matricesopts.samplingVars, "sampling-vars", nil, "sampling variables of external interest")
	return matricesCmd
}
