package dump

import (
	"sort"
	"strings"
)

// DirectoryNode is one node of the aggregated structural view. Each node
// owns its children exclusively; aggregates are filled by a single bottom-up
// pass after the tree is fully populated and never mutated afterwards.
type DirectoryNode struct {
	Name            string
	IsDir           bool
	Record          *FileRecord // nil for directories
	Children        []*DirectoryNode
	AggregateTokens int   // Sum over descendant records that remain emitted.
	AggregateSize   int64 // Same, in bytes.
}

// BuildTree inserts every record into a directory tree keyed by path
// segments, computes aggregates bottom-up, then orders siblings for
// rendering. Records of any status appear in the structure; only included
// and truncated ones contribute to the aggregates.
func BuildTree(records []*FileRecord, opts TreeOptions, rootName string) *DirectoryNode {
	root := &DirectoryNode{Name: rootName, IsDir: true}
	for _, record := range records {
		root.insert(strings.Split(record.RelPath, "/"), record)
	}
	root.aggregate()
	root.sortChildren(opts.SortBy, opts.DirsFirst)
	return root
}

// insert places a record under the node, creating intermediate directory
// nodes as needed.
func (n *DirectoryNode) insert(segments []string, record *FileRecord) {
	if len(segments) == 1 {
		n.Children = append(n.Children, &DirectoryNode{
			Name:   segments[0],
			Record: record,
		})
		return
	}
	n.childDir(segments[0]).insert(segments[1:], record)
}

// childDir finds or creates the named directory child.
func (n *DirectoryNode) childDir(name string) *DirectoryNode {
	for _, child := range n.Children {
		if child.IsDir && child.Name == name {
			return child
		}
	}
	child := &DirectoryNode{Name: name, IsDir: true}
	n.Children = append(n.Children, child)
	return child
}

// aggregate rolls token and size totals up from the leaves.
func (n *DirectoryNode) aggregate() (int, int64) {
	if !n.IsDir {
		if n.Record.Status.Emitted() {
			n.AggregateTokens = n.Record.TokenCount
			n.AggregateSize = n.Record.SizeBytes
		}
		return n.AggregateTokens, n.AggregateSize
	}
	for _, child := range n.Children {
		tokens, size := child.aggregate()
		n.AggregateTokens += tokens
		n.AggregateSize += size
	}
	return n.AggregateTokens, n.AggregateSize
}

// sortChildren orders siblings by the sort key, with the dirs-first (or
// files-first) partition applied before the key and name ascending as the
// tie break.
func (n *DirectoryNode) sortChildren(sortBy string, dirsFirst bool) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			if dirsFirst {
				return a.IsDir
			}
			return b.IsDir
		}
		switch sortBy {
		case SortBySize:
			if a.AggregateSize != b.AggregateSize {
				return a.AggregateSize > b.AggregateSize
			}
		case SortByTokens:
			if a.AggregateTokens != b.AggregateTokens {
				return a.AggregateTokens > b.AggregateTokens
			}
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for _, child := range n.Children {
		if child.IsDir {
			child.sortChildren(sortBy, dirsFirst)
		}
	}
}

// CountEntries returns the number of directory and file nodes beneath the
// node, itself excluded.
func (n *DirectoryNode) CountEntries() (dirs, files int) {
	for _, child := range n.Children {
		if child.IsDir {
			dirs++
			childDirs, childFiles := child.CountEntries()
			dirs += childDirs
			files += childFiles
		} else {
			files++
		}
	}
	return dirs, files
}
