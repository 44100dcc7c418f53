package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdf2dxf/internal/config"
	"github.com/jackzampolin/pdf2dxf/internal/output"
	"github.com/jackzampolin/pdf2dxf/internal/svcctx"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to the home directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		h := svcctx.HomeFrom(cmd.Context())
		if h.ConfigExists() && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", h.ConfigPath())
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", h.ConfigPath())
		return nil
	},
}

// settingView is one key as shown by config show.
type settingView struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Default     any    `json:"default" yaml:"default"`
	Description string `json:"description" yaml:"description"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every setting with its effective value",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr := svcctx.ConfigFrom(ctx)

		entries := config.DefaultEntries()
		views := make([]settingView, 0, len(entries))
		for _, e := range entries {
			v, err := mgr.Lookup(e.Key)
			if err != nil {
				return err
			}
			views = append(views, settingView{
				Key:         e.Key,
				Value:       v,
				Default:     e.Value,
				Description: e.Description,
			})
		}
		return output.Write(svcctx.OutputFrom(ctx), map[string]any{
			"file":     mgr.ConfigFile(),
			"settings": views,
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show the effective value of one setting with its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		view, err := describeSetting(svcctx.ConfigFrom(ctx), args[0])
		if err != nil {
			return err
		}
		return output.Write(svcctx.OutputFrom(ctx), view)
	},
}

// describeSetting pairs a key's effective value with its registered default.
func describeSetting(mgr *config.Manager, key string) (settingView, error) {
	v, err := mgr.Lookup(key)
	if err != nil {
		return settingView{}, err
	}
	view := settingView{Key: key, Value: v}
	if entry := config.GetDefault(key); entry != nil {
		view.Default = entry.Value
		view.Description = entry.Description
	}
	return view, nil
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
