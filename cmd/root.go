package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "cryptominisat",
	Short: "cryptominisat partitions XOR constraints into Gaussian elimination matrices",
	Long:  `The tool reads extended DIMACS files, groups their XOR constraints into variable-disjoint components and decides which components are worth keeping as active elimination matrices during search`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case verbosity <= 0:
			logrus.SetLevel(logrus.WarnLevel)
		case verbosity == 1:
			logrus.SetLevel(logrus.InfoLevel)
		case verbosity == 2:
			logrus.SetLevel(logrus.DebugLevel)
		default:
			logrus.SetLevel(logrus.TraceLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase diagnostic verbosity")
	rootCmd.AddCommand(NewMatricesCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
