package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configName = ".vcf2tab"

// initConfig loads the config file and VCF2TAB_* environment variables.
// A missing default config file is not an error.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("VCF2TAB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vcf2tab configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vcf2tab.yaml.",
		Example: `  vcf2tab config                      # show all config
  vcf2tab config set progress true    # always print progress marks
  vcf2tab config get max-lines        # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, v)
		},
	}

	cmd.AddCommand(newConfigSetCmd(v))
	cmd.AddCommand(newConfigGetCmd(v))

	return cmd
}

func newConfigSetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, v, args[0], args[1])
		},
	}
}

func newConfigGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, v, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command, v *viper.Viper) error {
	settings := fileSettings(v)
	if len(settings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "# No configuration set. Config file: ~/.vcf2tab.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runConfigSet(cmd *cobra.Command, v *viper.Viper, key, value string) error {
	// Write only what the file already holds plus the new key, so flag
	// defaults bound to v are not persisted.
	settings := fileSettings(v)

	switch value {
	case "true", "yes", "on":
		settings[key] = true
	case "false", "no", "off":
		settings[key] = false
	default:
		settings[key] = value
	}

	cfgFile := v.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName+".yaml")
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(cfgFile, out, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(cmd *cobra.Command, v *viper.Viper, key string) error {
	if !v.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.Get(key))
	return nil
}

// fileSettings returns the values loaded from the config file only.
func fileSettings(v *viper.Viper) map[string]any {
	settings := map[string]any{}
	if v.ConfigFileUsed() == "" {
		return settings
	}
	fv := viper.New()
	fv.SetConfigFile(v.ConfigFileUsed())
	if err := fv.ReadInConfig(); err != nil {
		return settings
	}
	return fv.AllSettings()
}
