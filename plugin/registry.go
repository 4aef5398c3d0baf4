package plugin

import "fmt"

// Outputs is a global map of OutputAdapter factories.
var Outputs = map[string]func(path string, batchSize int) (OutputAdapter, error){
	"badgerdb": func(path string, batchSize int) (OutputAdapter, error) {
		return NewBadgerOutput(path, batchSize)
	},
}

func OutputLookup(name, path string, batchSize int) (OutputAdapter, error) {
	factory, ok := Outputs[name]
	if !ok {
		return nil, fmt.Errorf("unknown output: %s", name)
	}
	return factory(path, batchSize)
}
