// This file holds the gohcl decoding targets for every block a model file
// may contain. Each block keeps its body so that its source range can be
// recovered; unknown content is rejected by gohcl itself.

package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Types                []*componentTypeBlock       `hcl:"component_type,block"`
	Implementations      []*componentImplBlock       `hcl:"component_implementation,block"`
	Systems              []*systemBlock              `hcl:"system,block"`
	ConnectionInstances  []*connectionInstanceBlock  `hcl:"connection_instance,block"`
	SystemOperationModes []*systemOperationModeBlock `hcl:"system_operation_mode,block"`
}

type componentTypeBlock struct {
	Name      string           `hcl:"name,label"`
	Category  string           `hcl:"category"`
	Features  []*featureBlock  `hcl:"feature,block"`
	FlowSpecs []*flowSpecBlock `hcl:"flow_spec,block"`
	Body      hcl.Body         `hcl:",body"`
}

type featureBlock struct {
	Name      string   `hcl:"name,label"`
	Kind      string   `hcl:"kind,optional"`
	Direction string   `hcl:"direction,optional"`
	Body      hcl.Body `hcl:",body"`
}

type flowSpecBlock struct {
	Name    string         `hcl:"name,label"`
	Kind    string         `hcl:"kind"`
	In      hcl.Expression `hcl:"in,optional"`
	Out     hcl.Expression `hcl:"out,optional"`
	InModes hcl.Expression `hcl:"in_modes,optional"`
	Body    hcl.Body       `hcl:",body"`
}

type componentImplBlock struct {
	TypeName      string               `hcl:"type,label"`
	Name          string               `hcl:"name,label"`
	Subcomponents []*subcomponentBlock `hcl:"subcomponent,block"`
	Connections   []*connectionBlock   `hcl:"connection,block"`
	Modes         []*modeBlock         `hcl:"mode,block"`
	FlowImpls     []*flowImplBlock     `hcl:"flow_impl,block"`
	EndToEndFlows []*endToEndFlowBlock `hcl:"end_to_end_flow,block"`
	Body          hcl.Body             `hcl:",body"`
}

type subcomponentBlock struct {
	Name       string         `hcl:"name,label"`
	Classifier hcl.Expression `hcl:"classifier"`
	InModes    hcl.Expression `hcl:"in_modes,optional"`
	Body       hcl.Body       `hcl:",body"`
}

type connectionBlock struct {
	Name          string         `hcl:"name,label"`
	Source        hcl.Expression `hcl:"source"`
	Destination   hcl.Expression `hcl:"destination"`
	Bidirectional bool           `hcl:"bidirectional,optional"`
	InModes       hcl.Expression `hcl:"in_modes,optional"`
	Body          hcl.Body       `hcl:",body"`
}

type modeBlock struct {
	Name    string   `hcl:"name,label"`
	Initial bool     `hcl:"initial,optional"`
	Body    hcl.Body `hcl:",body"`
}

type flowImplBlock struct {
	Spec     string         `hcl:"spec,label"`
	Kind     string         `hcl:"kind,optional"`
	Segments hcl.Expression `hcl:"segments"`
	InModes  hcl.Expression `hcl:"in_modes,optional"`
	Body     hcl.Body       `hcl:",body"`
}

type endToEndFlowBlock struct {
	Name     string         `hcl:"name,label"`
	Segments hcl.Expression `hcl:"segments"`
	InModes  hcl.Expression `hcl:"in_modes,optional"`
	Body     hcl.Body       `hcl:",body"`
}

type systemBlock struct {
	Name           string         `hcl:"name,label"`
	Implementation hcl.Expression `hcl:"implementation"`
	Body           hcl.Body       `hcl:",body"`
}

type connectionInstanceBlock struct {
	Name        string            `hcl:"name,label"`
	Source      hcl.Expression    `hcl:"source"`
	Destination hcl.Expression    `hcl:"destination"`
	References  []*referenceBlock `hcl:"reference,block"`
	InModes     hcl.Expression    `hcl:"in_modes,optional"`
	Body        hcl.Body          `hcl:",body"`
}

type referenceBlock struct {
	Context    hcl.Expression `hcl:"context,optional"`
	Connection hcl.Expression `hcl:"connection"`
	Body       hcl.Body       `hcl:",body"`
}

type systemOperationModeBlock struct {
	Name   string         `hcl:"name,label"`
	Modes  hcl.Expression `hcl:"modes"`
	Body   hcl.Body       `hcl:",body"`
}
