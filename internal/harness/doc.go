// Package harness runs scripted scenarios against the album wall engine.
//
// A scenario drives one engine on virtual time through a list of steps and
// checks the final state with assertions. Every step appends a snapshot of
// the engine's Stats to the trace, which golden tests compare byte for byte.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	viewport: { width: 300, height: 500 }
//	seed: 2006
//	albums: 4
//	max_deliveries: 100000
//	config:
//	  flip_interval: 2
//	steps:
//	  - action: start
//	  - action: advance
//	    duration: 500ms
//	  - action: stage2
//	  - action: drag
//	    delta: -10
//	    expect: { accepted: true }
//	  - action: resize
//	    width: 400
//	    height: 500
//	assertions:
//	  - type: stage
//	    stage: stage1
//	  - type: stat
//	    stat: flips
//	    equals: 4
//	  - type: grid_settled
//	  - type: tiles_bounded
//
// # Assertion Types
//
//   - stage: the final stage has the given name
//   - stat: a Stats field equals, or lies within min/max
//   - grid_settled: rows*cols equals the number of live tiles
//   - tiles_bounded: live tiles never exceeded rows*cols after any event
//
// An advance step that delivers more than max_deliveries notifications
// stops early and fails the scenario with a StepsExceededError.
//
// # Deterministic Testing
//
// The engine runs on sim.Scheduler with a fixed seed, synthetic album names
// and a fixed session id, so the same scenario always yields the same trace.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/lifecycle.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
