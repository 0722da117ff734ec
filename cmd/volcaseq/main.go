// Package main is the entry point for the volcaseq CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freqport/volcaseq/pkg/api"
	"github.com/freqport/volcaseq/pkg/export"
	"github.com/freqport/volcaseq/pkg/midiconv"
	"github.com/freqport/volcaseq/pkg/songfile"
	"github.com/freqport/volcaseq/pkg/syro"
	"github.com/freqport/volcaseq/pkg/tui"
	"github.com/freqport/volcaseq/pkg/volca"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile    string
	baseName      string
	syroDir       string
	skipAudio     bool
	patternNumber int
	serverPort    int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "volcaseq",
	Short: "Build and export Korg Volca Sample patterns",
	Long: `volcaseq models the sequencer state of the Korg Volca Sample and
exports patterns as the binary blobs the SYRO encoder turns into an audio
transfer stream.

Examples:
  volcaseq export beat.yaml
  volcaseq encode beat.yaml
  volcaseq inspect beat_p01.bin
  volcaseq midi2yaml groove.mid
  volcaseq tui
  volcaseq serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var exportCmd = &cobra.Command{
	Use:   "export <project.yaml>",
	Short: "Encode modified patterns and build the SYRO transfer stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var encodeCmd = &cobra.Command{
	Use:   "encode <project.yaml>",
	Short: "Write one .bin per modified pattern, without running the encoder",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <pattern.bin>",
	Short: "Decode an encoded pattern blob and print its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var midi2yamlCmd = &cobra.Command{
	Use:   "midi2yaml <input.mid>",
	Short: "Import a MIDI drum track into a project YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runMIDIToYAML,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	exportCmd.Flags().StringVarP(&baseName, "base", "b", "", "Base name for pattern files (default: input name)")
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output WAV path (default: <base>.wav)")
	exportCmd.Flags().StringVar(&syroDir, "syro-dir", "", "Directory holding the SYRO encoder binaries")
	exportCmd.Flags().BoolVar(&skipAudio, "no-audio", false, "Write pattern files only, skip the encoder")

	encodeCmd.Flags().StringVarP(&baseName, "base", "b", "", "Base name for pattern files (default: input name)")

	midi2yamlCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .yaml file path")
	midi2yamlCmd.Flags().IntVarP(&patternNumber, "pattern", "p", 1, "Target pattern number (1-10)")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(midi2yamlCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getBase(input string) string {
	if baseName != "" {
		return baseName
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func loadProject(path string) (*volca.Project, error) {
	f, err := songfile.Load(path)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

func runExport(cmd *cobra.Command, args []string) error {
	input := args[0]
	base := getBase(input)

	project, err := loadProject(input)
	if err != nil {
		return err
	}

	var enc syro.Encoder
	if !skipAudio {
		enc = &syro.ExecEncoder{Dir: syroDir}
	}

	out := outputFile
	if out == "" {
		out = base + ".wav"
	}

	res, err := export.Export(project, base, out, enc)
	if err != nil {
		return err
	}

	for _, e := range res.Entries {
		fmt.Printf("Wrote pattern %d -> %s\n", e.Pattern, e.Path)
	}
	if res.Audio != "" {
		fmt.Printf("Transfer stream -> %s\n", res.Audio)
	}
	if len(res.Entries) == 0 {
		fmt.Println("Project has no modified patterns, nothing to export")
	}
	return nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	input := args[0]

	project, err := loadProject(input)
	if err != nil {
		return err
	}

	entries, err := export.Patterns(project, getBase(input))
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("Wrote pattern %d -> %s\n", e.Pattern, e.Path)
	}
	if len(entries) == 0 {
		fmt.Println("Project has no modified patterns, nothing to encode")
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	pattern, err := volca.DecodePattern(data)
	if err != nil {
		return err
	}

	for q := 1; q <= volca.PartsPerPattern; q++ {
		part, err := pattern.PartAt(q)
		if err != nil {
			return err
		}
		fmt.Printf("part %2d  sample %2d  steps %s  funcs %s\n",
			q, part.Sample(), part.StepsString(), part.FunctionFlags())
		params := part.ParamValues()
		for i, p := range volca.Params {
			fmt.Printf("         %-12s %3d\n", p, params[i])
		}
	}
	return nil
}

func runMIDIToYAML(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := outputFile
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".yaml"
	}

	project := volca.NewProject()
	if err := midiconv.NewImporter().ImportFile(input, project, patternNumber); err != nil {
		return err
	}

	f, err := songfile.FromProject(project)
	if err != nil {
		return err
	}
	if err := f.Save(output); err != nil {
		return err
	}

	fmt.Printf("Imported %s -> %s\n", input, output)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
