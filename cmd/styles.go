package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Cytla24/poemtok/internal/style"
)

var stylesCmd = &cobra.Command{
	Use:   "styles [name]",
	Short: "List style presets or show one resolved preset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range style.Names() {
				fmt.Println(name)
			}
			if cfg.Style.PresetFile != "" {
				user, err := style.LoadPresetFile(cfg.Style.PresetFile)
				if err != nil {
					return err
				}
				for name := range user {
					fmt.Println(name)
				}
			}
			return nil
		}

		st, err := style.Resolve(args[0], cfg.Style)
		if err != nil {
			return err
		}
		return yaml.NewEncoder(os.Stdout).Encode(st)
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
