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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/meshio/meshio"
	"github.com/notargets/meshio/tgeometry"
	"github.com/notargets/meshio/tmeshio"
	"github.com/notargets/meshio/utils"
)

// MeshInfo summarizes a mesh file
type MeshInfo struct {
	File               string              `json:"file"`
	Vertices           int                 `json:"vertices"`
	Triangles          int                 `json:"triangles"`
	VertexAttributes   []string            `json:"vertex_attributes"`
	TriangleAttributes []string            `json:"triangle_attributes"`
	HasVertexNormals   bool                `json:"has_vertex_normals"`
	HasVertexColors    bool                `json:"has_vertex_colors"`
	HasTriangleUVs     bool                `json:"has_triangle_uvs"`
	BoundingBox        [2][3]float64       `json:"bounding_box"`
	SurfaceArea        float64             `json:"surface_area"`
	Edges              tgeometry.EdgeStats `json:"edges"`
	EdgeManifold       bool                `json:"edge_manifold"`
	Watertight         bool                `json:"watertight"`
}

func NewMeshInfo(filename string, mesh *tgeometry.TriangleMesh) (mi MeshInfo) {
	mi = MeshInfo{
		File:               filename,
		Vertices:           mesh.GetVertices().GetLength(),
		Triangles:          mesh.GetTriangles().GetLength(),
		VertexAttributes:   mesh.GetVertexAttrs().Keys(),
		TriangleAttributes: mesh.GetTriangleAttrs().Keys(),
		HasVertexNormals:   mesh.HasVertexNormals(),
		HasVertexColors:    mesh.HasVertexColors(),
		HasTriangleUVs:     mesh.HasTriangleUVs(),
		BoundingBox:        mesh.GetAxisAlignedBoundingBox(),
		SurfaceArea:        mesh.ToLegacyTriangleMesh().GetSurfaceArea(),
		Edges:              mesh.EdgeStatistics(),
		EdgeManifold:       mesh.IsEdgeManifold(),
		Watertight:         mesh.IsWatertight(),
	}
	return
}

// Marshal encodes the summary as yaml or json
func (mi MeshInfo) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(mi)
	case "json":
		return json.MarshalIndent(mi, "", "  ")
	default:
		return nil, fmt.Errorf("unknown output format %q, must be yaml or json", format)
	}
}

func newInfoCommand() *cobra.Command {
	var (
		input, format string
		progress      bool
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print element counts, attributes and edge statistics of a mesh file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(input) == 0 {
				return fmt.Errorf("must supply a mesh file (-i, --input)")
			}
			mesh := tmeshio.CreateMeshFromFile(input, progress)
			if mesh.IsEmpty() {
				return fmt.Errorf("no vertices read from %s", input)
			}
			out, err := NewMeshInfo(input, mesh).Marshal(format)
			if err != nil {
				return err
			}
			zap.L().Debug("Mesh info", zap.String("file", input), zap.String("memory", utils.GetMemUsage()))
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "mesh file to inspect")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a read progress bar")
	return cmd
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the file extensions that can be read and written",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tensor read:  %s\n", strings.Join(tmeshio.Default().Readers(), " "))
			fmt.Fprintf(out, "tensor write: %s\n", strings.Join(tmeshio.Default().Writers(), " "))
			fmt.Fprintf(out, "legacy read:  %s\n", strings.Join(meshio.SupportedReadExtensions(), " "))
			fmt.Fprintf(out, "legacy write: %s\n", strings.Join(meshio.SupportedWriteExtensions(), " "))
		},
	}
}
