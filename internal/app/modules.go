package app

import (
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/vk/queryfuncs/modules/datetime"
	"github.com/vk/queryfuncs/modules/dictionary"
	"github.com/vk/queryfuncs/modules/mathfuncs"
	"github.com/vk/queryfuncs/modules/stringfuncs"
)

// coreModules is the definitive list of all function modules compiled into
// the binary.
var coreModules = []functions.Module{
	&stringfuncs.Module{},
	&mathfuncs.Module{},
	&datetime.Module{},
	&dictionary.Module{},
}
