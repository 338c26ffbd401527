//go:build !windows

package llio

// sectionNative is empty on POSIX: there is no separate kernel section
// object, per spec.md section 4.2 ("POSIX: no kernel object exists; only
// the descriptor is retained").
type sectionNative struct{}

func createSectionNative(backing *FileHandle, maximumSize uint64, flag SectionFlag) (sectionNative, error) {
	if backing != nil && flag.Has(SectionPrefault) {
		if err := preallocate(backing.Native(), maximumSize); err != nil {
			return sectionNative{}, err
		}
	}
	return sectionNative{}, nil
}

func truncateSectionNative(s *SectionHandle, rounded uint64) error {
	if s.backing == nil {
		return nil
	}
	return preallocate(s.backing.Native(), rounded)
}

func closeSectionNative(n sectionNative) error { return nil }
