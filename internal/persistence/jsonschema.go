// Copyright 2025 James Ross
package persistence

// The schema documents below describe the neutral wire format, not the
// Go structs: they are the contract a loaded document must satisfy
// before it is unmarshaled into a ResultsDocument, ScenarioDocument, or
// ChangeReportDocument.

const distributionSchema = `{
  "type": "object",
  "required": ["family"],
  "properties": {
    "family": {"type": "string", "enum": ["normal", "triangular", "uniform", "beta", "lognormal"]},
    "mean": {"type": "number"}, "std": {"type": "number"},
    "min": {"type": "number"}, "mode": {"type": "number"}, "max": {"type": "number"},
    "alpha": {"type": "number"}, "beta": {"type": "number"},
    "mu": {"type": "number"}, "sigma": {"type": "number"},
    "bounds": {
      "type": "object",
      "properties": {
        "has_lower": {"type": "boolean"}, "lower": {"type": "number"},
        "has_upper": {"type": "boolean"}, "upper": {"type": "number"}
      }
    }
  }
}`

const riskSchema = `{
  "type": "object",
  "required": ["id", "name", "category", "impact_type", "distribution", "baseline_impact"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "category": {"type": "string", "enum": ["technical", "schedule", "cost", "resource", "external", "quality", "regulatory"]},
    "impact_type": {"type": "string", "enum": ["cost", "schedule", "both"]},
    "distribution": ` + distributionSchema + `,
    "baseline_impact": {"type": "number"},
    "depends_on": {"type": "array", "items": {"type": "string"}},
    "mitigations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "string"}, "name": {"type": "string"},
          "cost": {"type": "number"},
          "impact_reduction": {"type": "number"},
          "probability_delta": {"type": "number"}
        }
      }
    }
  }
}`

const convergenceSchema = `{
  "type": "object",
  "required": ["mean_stability", "variance_stability", "converged"],
  "properties": {
    "mean_stability": {"type": "number"},
    "variance_stability": {"type": "number"},
    "percentile_stability": {"type": "object"},
    "converged": {"type": "boolean"},
    "iteration_converged": {"type": "integer"}
  }
}`

// resultsSchema validates a ResultsDocument (§3 SimulationResults).
const resultsSchema = `{
  "type": "object",
  "required": ["simulation_id", "timestamp", "iterations", "cost_outcomes", "schedule_outcomes", "convergence"],
  "properties": {
    "simulation_id": {"type": "string", "minLength": 1},
    "timestamp": {"type": "string"},
    "iterations": {"type": "integer", "minimum": 0},
    "cost_outcomes": {"type": "array", "items": {"type": "number"}},
    "schedule_outcomes": {"type": "array", "items": {"type": "number"}},
    "risk_contributions": {"type": "object"},
    "convergence": ` + convergenceSchema + `,
    "wall_time_seconds": {"type": "number", "minimum": 0}
  }
}`

// scenarioSchema validates a ScenarioDocument (§3 Scenario).
const scenarioSchema = `{
  "type": "object",
  "required": ["id", "name", "risks"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "risks": {"type": "array", "items": ` + riskSchema + `},
    "modifications": {"type": "object"},
    "results": ` + resultsSchema + `
  }
}`

// changeReportSchema validates a ChangeReportDocument (§5 change detection).
const changeReportSchema = `{
  "type": "object",
  "required": ["changes", "counts_by_severity"],
  "properties": {
    "changes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "severity"],
        "properties": {
          "kind": {"type": "string", "enum": [
            "risk_added", "risk_removed", "distribution_family_changed",
            "parameter_changed", "baseline_impact_changed", "category_changed",
            "impact_type_changed", "correlation_changed"
          ]},
          "risk_id": {"type": "string"}, "risk_id_b": {"type": "string"},
          "field": {"type": "string"},
          "old_value": {"type": "string"}, "new_value": {"type": "string"},
          "relative_delta": {"type": "number"},
          "severity": {"type": "string", "enum": ["critical", "high", "medium", "low"]},
          "description": {"type": "string"}
        }
      }
    },
    "counts_by_severity": {"type": "object"},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "next_steps": {"type": "array", "items": {"type": "string"}}
  }
}`
