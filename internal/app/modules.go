package app

import (
	"github.com/specialistvlad/tunegridgo/internal/registry"
	"github.com/specialistvlad/tunegridgo/modules/fitresamples"
	"github.com/specialistvlad/tunegridgo/modules/gridsearch"
	"github.com/specialistvlad/tunegridgo/modules/randomsearch"
)

// coreModules is the definitive list of all operation modules that are
// compiled into the tunegridgo binary.
var coreModules = []registry.Module{
	&gridsearch.Module{},
	&randomsearch.Module{},
	&fitresamples.Module{},
}
