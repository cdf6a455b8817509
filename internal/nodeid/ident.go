// internal/nodeid/ident.go
package nodeid

import "strconv"

// String serializes the identifier into its generated-code form.
func (id Ident) String() string {
	return id.prefix() + strconv.Itoa(id.Index)
}

func (id Ident) prefix() string {
	switch id.Kind {
	case Result:
		return ResultPrefix
	case Lambda:
		return LambdaPrefix
	default:
		return DatasetPrefix
	}
}

// IsHead reports whether the identifier names the head dataset.
func (id Ident) IsHead() bool {
	return id.Kind == Dataset && id.Index == Head
}
