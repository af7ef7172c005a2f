package render

import (
	"context"
	"fmt"

	"github.com/lvillar/doclayout"
)

// renderFunc renders one node whose visibility and repetition have already
// been handled, with properties and style fully resolved.
type renderFunc func(e *Engine, ctx context.Context, sink doclayout.Sink, node *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, rc *doclayout.RenderContext) error

var renderers map[doclayout.Kind]renderFunc

func init() {
	renderers = map[doclayout.Kind]renderFunc{
		// Containers.
		doclayout.KindColumn:  renderContainer,
		doclayout.KindRow:     renderContainer,
		doclayout.KindGrid:    renderContainer,
		doclayout.KindTable:   renderContainer,
		doclayout.KindLayers:  renderContainer,
		doclayout.KindInlined: renderContainer,
		doclayout.KindList:    renderContainer,

		// Wrappers.
		doclayout.KindPadding:          renderWrapper,
		doclayout.KindBorder:           renderWrapper,
		doclayout.KindBackground:       renderWrapper,
		doclayout.KindAlignment:        renderWrapper,
		doclayout.KindWidth:            renderWrapper,
		doclayout.KindHeight:           renderWrapper,
		doclayout.KindMinWidth:         renderWrapper,
		doclayout.KindMaxWidth:         renderWrapper,
		doclayout.KindMinHeight:        renderWrapper,
		doclayout.KindMaxHeight:        renderWrapper,
		doclayout.KindAspectRatio:      renderWrapper,
		doclayout.KindExtend:           renderWrapper,
		doclayout.KindShrink:           renderWrapper,
		doclayout.KindScale:            renderWrapper,
		doclayout.KindRotate:           renderWrapper,
		doclayout.KindFlipHorizontal:   renderWrapper,
		doclayout.KindFlipVertical:     renderWrapper,
		doclayout.KindTranslate:        renderWrapper,
		doclayout.KindUnconstrained:    renderWrapper,
		doclayout.KindDefaultTextStyle: renderDefaultTextStyle,
		doclayout.KindShowOnce:         renderWrapper,
		doclayout.KindSkipOnce:         renderWrapper,
		doclayout.KindShowEntire:       renderWrapper,
		doclayout.KindEnsureSpace:      renderWrapper,
		doclayout.KindStopPaging:       renderWrapper,
		doclayout.KindHyperlink:        renderWrapper,
		doclayout.KindSection:          renderWrapper,
		doclayout.KindSectionLink:      renderWrapper,
		doclayout.KindClip:             renderWrapper,
		doclayout.KindOpacity:          renderWrapper,
		doclayout.KindShowIf:           renderShowIf,

		// Leaves.
		doclayout.KindText:        renderText,
		doclayout.KindImage:       renderImage,
		doclayout.KindBarcode:     renderBarcode,
		doclayout.KindQRCode:      renderQRCode,
		doclayout.KindLine:        renderLine,
		doclayout.KindDivider:     renderDivider,
		doclayout.KindSpacer:      renderSpacer,
		doclayout.KindPageBreak:   renderPageBreak,
		doclayout.KindPageNumber:  renderPageNumber,
		doclayout.KindTotalPages:  renderTotalPages,
		doclayout.KindPlaceholder: renderPlaceholder,
		doclayout.KindEmpty:       renderEmpty,
	}
}

// The renderer table and the component registry must cover exactly the same
// kinds; a mismatch is a programming error caught at startup.
func init() {
	for _, k := range doclayout.Kinds() {
		if _, ok := renderers[k]; !ok {
			panic(fmt.Sprintf("render: registered kind %q has no renderer", k))
		}
	}
	for k := range renderers {
		if !doclayout.IsKnownKind(k) {
			panic(fmt.Sprintf("render: renderer for unregistered kind %q", k))
		}
	}
}

func elementInfo(node *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties) doclayout.ElementInfo {
	return doclayout.ElementInfo{
		Kind:       node.Kind,
		ID:         node.ID,
		Properties: props,
		Style:      style,
	}
}
