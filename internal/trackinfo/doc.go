// Package trackinfo reads trackinfo manifests.
//
// A manifest is a line-oriented text file of KEY=VALUE assignments. A key
// followed by an index applies to one track, a key without an index updates
// the document scope that later tracks copy when they are first mentioned:
//
//	ALBUM=Abbey Road
//	ARTIST=The Beatles
//	INPUT=abbey-road.zip
//	TITLE[1]=Come Together
//	TITLE[2]=Something
//	ARTIST[2]=George Harrison
//	COVER=folder.jpg
//
// Assigning an empty value removes the field from the scope being written.
//
// Parsing is done in two passes. ScanInputs collects the declared INPUT
// paths so that archives can be expanded, then Parse builds the model.Tree
// using the resulting input map:
//
//	declared, err := trackinfo.ScanInputsFile(path)
//	inputs, err := resolver.Resolve(ctx, declared)
//	tree, err := trackinfo.ParseFile(path, inputs, warn)
package trackinfo
