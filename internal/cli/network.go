package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smapshot/pkg/pipeline"
	"github.com/matzehuels/smapshot/pkg/roadnet"
)

// networkCommand creates the network debugging command.
func (c *CLI) networkCommand() *cobra.Command {
	var (
		output  string
		osmFile string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "network <boundary>",
		Short: "Write the filtered road network of a boundary as DOT or SVG",
		Long: `Build the road network for a boundary and write it as a graph: one
vertex per road, colored by whether it was kept or why it was dropped.
The output format follows the extension of --output (.dot or .svg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if output == "" {
				output = outputStem(args[0]) + "-network.svg"
			}
			ext := strings.ToLower(filepath.Ext(output))
			if ext != ".dot" && ext != ".svg" {
				return fmt.Errorf("unsupported network output %q (want .dot or .svg)", ext)
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Render(ctx, pipeline.Options{
				Boundary: args[0],
				OSMFile:  osmFile,
				Formats:  []string{pipeline.FormatPNG},
				NoLabels: true,
			})
			if err != nil {
				return err
			}

			dot := res.Output.Graph.DOT()
			data := []byte(dot)
			if ext == ".svg" {
				if data, err = roadnet.RenderSVG(ctx, dot); err != nil {
					return err
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}

			st := res.Stats.Network
			printSuccess("%s", res.Name)
			printKeyValue("roads", fmt.Sprint(st.Roads))
			printKeyValue("components", fmt.Sprint(st.Components))
			printKeyValue("kept", fmt.Sprint(st.Kept))
			printKeyValue("stubs", fmt.Sprint(st.Stubs))
			printKeyValue("unreachable", fmt.Sprint(st.Unreachable))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().StringVar(&osmFile, "osm", "", "use a local OSM XML file instead of downloading")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
