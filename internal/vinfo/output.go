/**
 * Copyright (c) 2025 The Vortex Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package vinfo

import (
	"fmt"

	"github.com/xlab/treeprint"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

// ClusterTree renders the partitions and their node groups as a tree.
func ClusterTree(clusterName string, partitions []*api.PartitionInfo) string {
	root := clusterName
	if root == "" {
		root = "Cluster"
	}
	tree := treeprint.NewWithRoot(root)

	for _, p := range partitions {
		label := fmt.Sprintf("%s [%s, %d/%d nodes]", p.Name, p.State, p.AvailNodes, p.TotalNodes)
		if p.IsDefault {
			label = fmt.Sprintf("%s (default) [%s, %d/%d nodes]", p.Name, p.State, p.AvailNodes, p.TotalNodes)
		}
		branch := tree.AddBranch(label)
		for _, s := range p.Shapes {
			branch.AddNode(fmt.Sprintf("%d x (%d cpus, %d gpus, %s)",
				s.Count, s.Cpus, s.Gpus, util.FormatMemToMB(s.MemoryBytes)))
		}
	}

	return tree.String()
}
