package correlation

import (
	"math"
	"sort"

	"edakit/domain/analysis"
)

// clusterSimilarity is the internal |r| threshold for cluster membership
const clusterSimilarity = 0.7

// clusterFeatures groups numeric columns by mutual correlation strength
// using average-linkage agglomerative merging over |r|. Clusters of one
// are reported separately as independent features.
func clusterFeatures(columns []string, matrix [][]float64) ([]analysis.FeatureCluster, []string) {
	n := len(columns)
	if n < 2 {
		return nil, nil
	}

	// Start from singletons and greedily merge the most similar pair of
	// clusters while their average |r| clears the threshold
	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}

	for {
		bestI, bestJ, bestSim := -1, -1, 0.0
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				sim := averageLinkage(clusters[i], clusters[j], matrix)
				if sim > bestSim {
					bestI, bestJ, bestSim = i, j, sim
				}
			}
		}
		if bestSim < clusterSimilarity {
			break
		}
		clusters[bestI] = append(clusters[bestI], clusters[bestJ]...)
		clusters = append(clusters[:bestJ], clusters[bestJ+1:]...)
	}

	var groups []analysis.FeatureCluster
	var independent []string
	clusterID := 1
	for _, members := range clusters {
		if len(members) < 2 {
			independent = append(independent, columns[members[0]])
			continue
		}
		sort.Ints(members)
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = columns[m]
		}
		groups = append(groups, analysis.FeatureCluster{
			ID:             clusterID,
			Columns:        names,
			AvgCorrelation: roundTo(intraClusterAverage(members, matrix), 4),
		})
		clusterID++
	}

	sort.Strings(independent)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Columns[0] < groups[j].Columns[0] })
	for i := range groups {
		groups[i].ID = i + 1
	}
	return groups, independent
}

// averageLinkage is the mean |r| across all cross-cluster member pairs
func averageLinkage(a, b []int, matrix [][]float64) float64 {
	var total float64
	for _, i := range a {
		for _, j := range b {
			total += math.Abs(matrix[i][j])
		}
	}
	return total / float64(len(a)*len(b))
}

// intraClusterAverage is the mean |r| across all member pairs
func intraClusterAverage(members []int, matrix [][]float64) float64 {
	if len(members) < 2 {
		return 0
	}
	var total float64
	count := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += math.Abs(matrix[members[i]][members[j]])
			count++
		}
	}
	return total / float64(count)
}
