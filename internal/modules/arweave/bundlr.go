package arweave

import (
	"context"
	"fmt"

	"github.com/everFinance/goar"
	artypes "github.com/everFinance/goar/types"
	"github.com/everFinance/goar/utils"
	"github.com/everFinance/goether"
)

// BundlrUploader signs ANS-104 data items with a MATIC key and submits them to
// a Bundlr node.
type BundlrUploader struct {
	nodeURL    string
	itemSigner *goar.ItemSigner
}

func NewBundlrUploader(nodeURL, privateKeyHex string) (*BundlrUploader, error) {
	signer, err := goether.NewSigner(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	itemSigner, err := goar.NewItemSigner(signer)
	if err != nil {
		return nil, fmt.Errorf("create item signer: %w", err)
	}
	return &BundlrUploader{nodeURL: nodeURL, itemSigner: itemSigner}, nil
}

// Upload signs one data item and submits it. Exactly one transaction per call;
// the caller must not assume a failed submission had no on-network effect.
func (u *BundlrUploader) Upload(ctx context.Context, data []byte, tags []Tag) (string, error) {
	arTags := make([]artypes.Tag, len(tags))
	for i, t := range tags {
		arTags[i] = artypes.Tag{Name: t.Name, Value: t.Value}
	}

	item, err := u.itemSigner.CreateAndSignItem(data, "", "", arTags)
	if err != nil {
		return "", fmt.Errorf("sign data item: %w", err)
	}
	if _, err := utils.SubmitItemToBundlr(item, u.nodeURL); err != nil {
		return "", err
	}
	return item.Id, nil
}
