package main

import (
	"context"
	"fmt"

	"rule/builtin/memfactoryregistry"
	"rule/builtin/memtemplateregistry"
	"rule/builtin/memtyperegistry"
	"rule/engine"
	"rule/handlers/exprcondition"
	"rule/handlers/jsaction"
	"rule/types"
)

func main() {
	typeRegistry := memtyperegistry.New()
	templateRegistry := memtemplateregistry.New()
	factoryRegistry := memfactoryregistry.New()

	typeRegistry.Put(types.ModuleType{
		UID:  exprcondition.TypeUID,
		Kind: types.KindCondition,
		Inputs: []types.Field{
			{Name: "temperature", Kind: "number"},
		},
	})
	typeRegistry.Put(types.ModuleType{
		UID:  jsaction.TypeUID,
		Kind: types.KindAction,
		Inputs: []types.Field{
			{Name: "temperature", Kind: "number"},
		},
		Outputs: []types.Field{
			{Name: "notified", Kind: "bool"},
		},
	})

	observer := types.StatusObserverFunc(func(ruleUID string, info types.StatusInfo) {
		fmt.Printf("rule %s -> %s (%s) %s\n", ruleUID, info.Status, info.Detail, info.Message)
	})

	eng := engine.New(
		types.WithTypeRegistry(typeRegistry),
		types.WithTemplateRegistry(templateRegistry),
		types.WithFactoryRegistry(factoryRegistry),
		types.WithParser(engine.NewJSONParser()),
		types.WithObserver(observer),
	)
	defer eng.Dispose()

	// Register handler factories after the engine exists; this is the
	// ordinary "plugin connects later" case the registry watcher handles.
	factoryRegistry.Register(exprcondition.New())
	factoryRegistry.Register(jsaction.New())

	rule := types.Rule{
		Triggers: []types.Trigger{
			{ModuleBase: types.ModuleBase{ID: "sensor", TypeUID: "mqttTrigger"}},
		},
		Conditions: []types.Condition{
			{
				ModuleBase: types.ModuleBase{
					ID:      "hot",
					TypeUID: exprcondition.TypeUID,
					Configuration: types.Configuration{"script": "temperature > 28"},
				},
				Connections: []types.Connection{
					{InputName: "temperature", SourceModuleID: "sensor", OutputName: "temperature"},
				},
			},
		},
		Actions: []types.Action{
			{
				ModuleBase: types.ModuleBase{
					ID:      "notify",
					TypeUID: "jsAction:notify",
					Configuration: types.Configuration{"script": `
						function main(inputs) { return {"notified": true, "message": "it is hot"}; }
					`},
				},
				Connections: []types.Connection{
					{InputName: "temperature", SourceModuleID: "sensor", OutputName: "temperature"},
				},
			},
		},
		Tags: types.NewTags("demo", "climate"),
	}

	uid, err := eng.Add(context.Background(), rule)
	if err != nil {
		fmt.Println("add failed:", err)
		return
	}
	status, _ := eng.GetStatus(uid)
	fmt.Printf("rule %s bound with status %s\n", uid, status.Status)
}
