package objectfs

import (
	"fmt"
	"path"
	"strings"
)

// Markers is the reserved name vocabulary of the commit protocol used
// by the compute framework. The values are configuration, not compiled
// in constants, so the same algorithm can be run against alternative
// vocabularies.
type Markers struct {
	// TempDir is the directory name marking a job's scratch subtree.
	TempDir string
	// AttemptPrefix is the name prefix of a task attempt directory.
	AttemptPrefix string
	// SuccessFile is the job completion sentinel filename.
	SuccessFile string
	// DirContentType is the content type of directory marker objects.
	DirContentType string
}

// DefaultMarkers returns the vocabulary of the Hadoop FileOutputCommitter.
func DefaultMarkers() Markers {
	return Markers{
		TempDir:        "_temporary",
		AttemptPrefix:  "attempt_",
		SuccessFile:    "_SUCCESS",
		DirContentType: "application/directory",
	}
}

// Keyer turns client-visible hierarchical paths into flat object store
// keys.
//
// hostScheme is the "scheme://authority/" prefix paths are rooted at,
// dataRoot the container name keys are prefixed with.
type Keyer struct {
	hostScheme string
	dataRoot   string
	markers    Markers
}

func NewKeyer(hostScheme, dataRoot string, markers Markers) *Keyer {
	return &Keyer{
		hostScheme: hostScheme,
		dataRoot:   dataRoot,
		markers:    markers,
	}
}

// Markers returns the vocabulary the keyer was configured with.
func (k *Keyer) Markers() Markers {
	return k.markers
}

// Translate derives the object key that should hold the content of p.
//
// With foldAttempt set, the task attempt id embedded in the path is
// folded into the final segment of the key. For example
//
//	ofs://data.bkt/a/one.txt/_temporary/0/_temporary/attempt_201610052038_0001_m_000007_15/part-00007
//
// translates to
//
//	data/a/one.txt/part-00007-201610052038_0001_m_000007_15
//
// while without folding the key is data/a/one.txt. Folding makes keys
// written by concurrent or retried attempts of the same logical output
// distinct, so no attempt can overwrite another and no rename step is
// needed to commit.
//
// Fails with ErrMalformedPath when the scratch marker sits directly
// under the root and the path carries no object name.
func (k *Keyer) Translate(p string, foldAttempt bool) (string, error) {
	name, err := k.objectName(p, foldAttempt)
	if err != nil {
		return "", err
	}
	return k.dataRoot + "/" + name, nil
}

func (k *Keyer) objectName(p string, foldAttempt bool) (string, error) {
	noPrefix := strings.TrimPrefix(p, k.hostScheme)
	idx := strings.Index(noPrefix, k.markers.TempDir)
	if idx < 0 {
		// Not under the commit protocol. The whole remainder is the name.
		return noPrefix, nil
	}
	// The marker may appear with or without a leading separator,
	// depending on how the request path was assembled. Only these two
	// positions mean "no object name"; do not generalize further.
	if idx == 0 || idx == 1 && strings.HasPrefix(noPrefix, "/") {
		return "", fmt.Errorf("%w: %s", ErrMalformedPath, p)
	}
	name := noPrefix[:idx-1]
	if foldAttempt {
		leaf := path.Base(p)
		if attempt := k.AttemptID(p); attempt != "" && !strings.HasPrefix(leaf, k.markers.AttemptPrefix) {
			leaf = leaf + "-" + attempt
		}
		name = name + "/" + leaf
	}
	return name, nil
}

// AttemptID extracts the task attempt identifier embedded in p: the
// first path segment carrying the attempt prefix, with the prefix
// stripped. Returns "" when the path is not attempt scoped.
func (k *Keyer) AttemptID(p string) string {
	for _, segment := range strings.Split(p, "/") {
		if strings.HasPrefix(segment, k.markers.AttemptPrefix) {
			return strings.TrimPrefix(segment, k.markers.AttemptPrefix)
		}
	}
	return ""
}

func parentPath(p string) string {
	p, _ = path.Split(p)
	return trimSlash(p)
}

func trimSlash(str string) string {
	return strings.TrimSuffix(str, "/")
}
