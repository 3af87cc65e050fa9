package engine

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// InputSchema returns the JSON schema a SimulationInput document must satisfy.
func InputSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.ReflectFromType(reflect.TypeOf(SimulationInput{}))
	schema.Title = "Evasion Simulation Input"
	schema.Description = "An agent, the arena floor it stands on and the projectiles fired at it."
	return schema
}
