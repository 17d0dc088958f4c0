package commands

import (
	"github.com/spf13/cobra"

	"github.com/zeu5/gridnav/config"
	"github.com/zeu5/gridnav/util"
)

func ConfigCommand() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return dumpConfig(cmd, cfg, outFile)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func dumpConfig(cmd *cobra.Command, cfg *config.Config, outFile string) error {
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	if outFile != "" {
		return util.WriteToFile(outFile, string(data))
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
