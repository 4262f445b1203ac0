// Package place decides where a historical file belongs inside an
// existing destination tree.
package place

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Placer maps historical absolute paths to write targets under a
// destination root. Resolution tries, in order: direct remap under the
// source root, filename match with the deepest agreeing directory
// suffix, reconstruction below the source root's anchor folder name,
// and finally a flat drop at the destination root. ChooseDest is total.
type Placer struct {
	sourceRoot    string
	sourceName    string
	destRoot      string
	maxIndexFiles int

	// index maps base filename to every destination path bearing it.
	// Built lazily on the first filename lookup and never refreshed, so
	// files written earlier in a run are invisible to later lookups.
	index map[string][]string

	strategies []strategy
}

type strategy func(src string) (string, bool)

// New returns a Placer for the given roots. maxIndexFiles bounds how
// many destination files the filename index will record.
func New(sourceRoot, destRoot string, maxIndexFiles int) *Placer {
	p := &Placer{
		sourceRoot:    sourceRoot,
		sourceName:    filepath.Base(sourceRoot),
		destRoot:      destRoot,
		maxIndexFiles: maxIndexFiles,
	}
	p.strategies = []strategy{p.directRemap, p.suffixMatch, p.anchorRebuild}
	return p
}

// ChooseDest returns the destination path for a historical file. It
// never fails; when no strategy applies the file lands flat at the
// destination root.
func (p *Placer) ChooseDest(src string) string {
	for _, s := range p.strategies {
		if dest, ok := s(src); ok {
			return dest
		}
	}
	return filepath.Join(p.destRoot, filepath.Base(src))
}

// directRemap maps paths under the source root to the same relative
// position under the destination root.
func (p *Placer) directRemap(src string) (string, bool) {
	rel, err := filepath.Rel(p.sourceRoot, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(p.destRoot, rel), true
}

// suffixMatch finds the destination file sharing src's filename with the
// deepest agreeing path suffix; ties go to the candidate with fewer
// segments. The winner is returned as-is: the restore overwrites that
// file in place.
func (p *Placer) suffixMatch(src string) (string, bool) {
	candidates := p.lookup(filepath.Base(src))
	if len(candidates) == 0 {
		return "", false
	}
	srcSegs := segments(src)
	best := ""
	bestLen, bestSegs := -1, -1
	for _, cand := range candidates {
		cs := segments(cand)
		sl := commonSuffixLen(srcSegs, cs)
		if sl > bestLen || (sl == bestLen && len(cs) < bestSegs) {
			bestLen, bestSegs, best = sl, len(cs), cand
		}
	}
	if bestLen > 0 {
		return best, true
	}
	return "", false
}

// anchorRebuild re-roots the part of src below the source root's folder
// name under the destination root.
func (p *Placer) anchorRebuild(src string) (string, bool) {
	segs := segments(src)
	for i, s := range segs {
		if s != p.sourceName {
			continue
		}
		rest := segs[i+1:]
		if len(rest) == 0 {
			return filepath.Join(p.destRoot, filepath.Base(src)), true
		}
		return filepath.Join(append([]string{p.destRoot}, rest...)...), true
	}
	return "", false
}

func (p *Placer) lookup(filename string) []string {
	if p.index == nil {
		p.buildIndex()
	}
	return p.index[filename]
}

func (p *Placer) buildIndex() {
	p.index = make(map[string][]string)
	count := 0
	filepath.WalkDir(p.destRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if count >= p.maxIndexFiles {
			return fs.SkipAll
		}
		count++
		name := d.Name()
		p.index[name] = append(p.index[name], path)
		return nil
	})
}

// segments splits a path into its components, volume and root dropped.
func segments(p string) []string {
	p = filepath.ToSlash(p)
	if v := filepath.VolumeName(p); v != "" {
		p = p[len(v):]
	}
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// commonSuffixLen counts how many trailing segments a and b share.
func commonSuffixLen(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}
