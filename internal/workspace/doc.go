// Package workspace manages the per-run scratch directory and the lock that
// keeps two runs from writing into the same output tree.
//
// Everything extracted or generated during a run lives below one Scratch
// root, which Close removes:
//
//	scratch, err := workspace.NewScratch("")
//	if err != nil {
//	    return err
//	}
//	defer scratch.Close()
//
//	dir, err := scratch.UniqueDir("archives") // archives/<uuid>
package workspace
