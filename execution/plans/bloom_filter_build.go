package plans

import (
	"fmt"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
)

/**
 * BloomFilterBuildPlanNode builds a bloom filter from keys of tuples emitted
 * by its child (build side). the filter is attached to a bloom filter
 * predicate of probeRelation whose keys are made from probeAttrIds.
 */
type BloomFilterBuildPlanNode struct {
	*AbstractPlanNode
	buildAttrIds  []int
	probeRelation *catalog.CatalogRelation
	probeAttrIds  []int
}

func NewBloomFilterBuildPlanNode(child Plan, buildAttrIds []int, probeRelation *catalog.CatalogRelation, probeAttrIds []int) *BloomFilterBuildPlanNode {
	if len(buildAttrIds) == 0 || len(buildAttrIds) != len(probeAttrIds) {
		panic("illegal key attributes are passed!")
	}
	for ii := range buildAttrIds {
		build_type := child.GetRelation().GetAttributeById(buildAttrIds[ii]).GetType()
		probe_type := probeRelation.GetAttributeById(probeAttrIds[ii]).GetType()
		common.SH_Assert(build_type.GetTypeID() == probe_type.GetTypeID(), "key types of build and probe side must be same.")
	}
	return &BloomFilterBuildPlanNode{&AbstractPlanNode{[]Plan{child}}, buildAttrIds, probeRelation, probeAttrIds}
}

func (p *BloomFilterBuildPlanNode) GetType() PlanType { return BloomFilterBuild }

// GetRelation returns build side relation
func (p *BloomFilterBuildPlanNode) GetRelation() *catalog.CatalogRelation {
	return p.children[0].GetRelation()
}

func (p *BloomFilterBuildPlanNode) GetBuildAttrIds() []int { return p.buildAttrIds }

func (p *BloomFilterBuildPlanNode) GetProbeRelation() *catalog.CatalogRelation { return p.probeRelation }

func (p *BloomFilterBuildPlanNode) GetProbeAttrIds() []int { return p.probeAttrIds }

func (p *BloomFilterBuildPlanNode) GetDebugStr() string {
	return fmt.Sprintf("BloomFilterBuildPlanNode [ build: %s%v, probe: %s%v ]",
		p.GetRelation().GetName(), p.buildAttrIds, p.probeRelation.GetName(), p.probeAttrIds)
}
