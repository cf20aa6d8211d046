package ebitengpu

import (
	"fmt"

	"github.com/phanxgames/tessera"
)

// Kage is the Ebitengine shading language dialect. The packer's texture
// coordinate arrives in custom.xy and the unit in custom.z.
var Kage tessera.Dialect = kageDialect{}

type kageDialect struct{}

func (kageDialect) Name() string { return "kage" }

func (kageDialect) Prelude(units int) string {
	s := "//kage:unit pixels\n\npackage main\n\n" +
		"func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {\n" +
		"\tuv := custom.xy\n"
	if units > 1 {
		s += "\tslot := int(floor(custom.z + 0.5))\n"
	}
	return s + "\tvar c vec4\n"
}

func (kageDialect) Sample(unit int) string {
	return fmt.Sprintf("imageSrc%[1]dAt(imageSrc%[1]dOrigin() + uv*imageSrc%[1]dSize())", unit)
}

func (kageDialect) Epilogue() string {
	return "\treturn c * color\n}\n"
}
