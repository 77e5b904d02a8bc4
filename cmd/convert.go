/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/meshio/tgeometry"
	"github.com/notargets/meshio/tmeshio"
	"github.com/notargets/meshio/utils"
)

type convertOptions struct {
	Input, Output, To          string
	ASCII, Compressed          bool
	NoNormals, NoColors, NoUVs bool
	PostProcess, PrintProgress bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	co := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a mesh file into another format",
		Long: `
Reads the input mesh and writes it in the format selected by the output file
extension. Write flags default to the "write" section of the configuration.

meshio convert -i cube.msh -o cube.obj --no-uvs
meshio convert -i cube.msh --to off`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(co.Output) == 0 && len(co.To) != 0 {
				co.Output = utils.GetFileNameWithoutExtension(co.Input) + "." + strings.TrimPrefix(co.To, ".")
			}
			if len(co.Input) == 0 || len(co.Output) == 0 {
				return fmt.Errorf("must supply an input (-i, --input) and an output (-o, --output or --to) file")
			}
			if !utils.FileExists(co.Input) {
				return fmt.Errorf("input file %s does not exist", co.Input)
			}
			mesh := tgeometry.NewTriangleMesh()
			readOpt := tmeshio.ReadOption{
				EnablePostProcessing: co.PostProcess,
				PrintProgress:        co.PrintProgress,
			}
			if !tmeshio.ReadTriangleMesh(co.Input, mesh, readOpt) {
				return fmt.Errorf("unable to read %s", co.Input)
			}
			if !tmeshio.WriteTriangleMesh(co.Output, mesh, co.writeOption(ctx)) {
				return fmt.Errorf("unable to write %s", co.Output)
			}
			zap.L().Info("Converted mesh",
				zap.String("input", co.Input), zap.String("output", co.Output),
				zap.Int("vertices", mesh.GetVertices().GetLength()),
				zap.Int("triangles", mesh.GetTriangles().GetLength()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n%s\n", co.Input, co.Output, mesh)
			return nil
		},
	}
	cmd.Flags().StringVarP(&co.Input, "input", "i", "", "mesh file to read")
	cmd.Flags().StringVarP(&co.Output, "output", "o", "", "mesh file to write, the extension selects the format")
	cmd.Flags().StringVarP(&co.To, "to", "t", "", "output extension, the output is the input with this extension when -o is not given")
	cmd.Flags().BoolVar(&co.ASCII, "ascii", false, "request ASCII output")
	cmd.Flags().BoolVar(&co.Compressed, "compressed", false, "request compressed output")
	cmd.Flags().BoolVar(&co.NoNormals, "no-normals", false, "do not write vertex normals")
	cmd.Flags().BoolVar(&co.NoColors, "no-colors", false, "do not write vertex colors")
	cmd.Flags().BoolVar(&co.NoUVs, "no-uvs", false, "do not write triangle texture coordinates")
	cmd.Flags().BoolVarP(&co.PostProcess, "post-process", "p", false, "compute vertex normals when the input has none")
	cmd.Flags().BoolVar(&co.PrintProgress, "progress", false, "show read and write progress bars")
	return cmd
}

// writeOption merges the command flags over the configured write defaults
func (co *convertOptions) writeOption(ctx *commandContext) tmeshio.WriteOption {
	w := ctx.cfg.Write
	return tmeshio.WriteOption{
		WriteASCII:         w.ASCII || co.ASCII,
		Compressed:         w.Compressed || co.Compressed,
		WriteVertexNormals: w.VertexNormals && !co.NoNormals,
		WriteVertexColors:  w.VertexColors && !co.NoColors,
		WriteTriangleUVs:   w.TriangleUVs && !co.NoUVs,
		PrintProgress:      co.PrintProgress,
	}
}
