package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// EWalletReceipt is the payer-facing metadata returned for e-wallet invoices
// (gcash).
type EWalletReceipt struct {
	Channel     string `bson:"channel" json:"channel"`
	PayerEmail  string `bson:"payerEmail" json:"payerEmail"`
	CheckoutURL string `bson:"checkoutUrl" json:"checkoutUrl"`
}

// BankReceipt carries the virtual account details for bank transfer invoices.
type BankReceipt struct {
	BankCode      string `bson:"bankCode" json:"bankCode"`
	AccountNumber string `bson:"accountNumber" json:"accountNumber"`
	PayerEmail    string `bson:"payerEmail" json:"payerEmail"`
}

// CardReceipt carries card charge metadata. Last4 is only known after the
// provider reports a charge, so it may be empty on a pending entry.
type CardReceipt struct {
	CheckoutURL string `bson:"checkoutUrl" json:"checkoutUrl"`
	Last4       string `bson:"last4,omitempty" json:"last4,omitempty"`
}

// CODReceipt records the collection note for cash-on-delivery orders.
type CODReceipt struct {
	Note        string `bson:"note,omitempty" json:"note,omitempty"`
	CollectedBy string `bson:"collectedBy,omitempty" json:"collectedBy,omitempty"`
}

// ProviderResponse is the method-keyed snapshot of provider metadata stored on
// a ledger entry. Exactly one variant must be set and it must match Method;
// the BSON codec rejects anything else so a mismatched document cannot be
// written or silently decoded.
type ProviderResponse struct {
	Method  PaymentMethod
	EWallet *EWalletReceipt
	Bank    *BankReceipt
	Card    *CardReceipt
	COD     *CODReceipt
}

type providerResponseDoc struct {
	Method  PaymentMethod   `bson:"method"`
	EWallet *EWalletReceipt `bson:"ewallet,omitempty"`
	Bank    *BankReceipt    `bson:"bank,omitempty"`
	Card    *CardReceipt    `bson:"card,omitempty"`
	COD     *CODReceipt     `bson:"cod,omitempty"`
}

func (p ProviderResponse) variantSet() (int, error) {
	count := 0
	if p.EWallet != nil {
		if p.Method != MethodGCash {
			return 0, fmt.Errorf("ewallet receipt requires method %q, got %q", MethodGCash, p.Method)
		}
		count++
	}
	if p.Bank != nil {
		if p.Method != MethodBank {
			return 0, fmt.Errorf("bank receipt requires method %q, got %q", MethodBank, p.Method)
		}
		count++
	}
	if p.Card != nil {
		if p.Method != MethodCard {
			return 0, fmt.Errorf("card receipt requires method %q, got %q", MethodCard, p.Method)
		}
		count++
	}
	if p.COD != nil {
		if p.Method != MethodCOD {
			return 0, fmt.Errorf("cod receipt requires method %q, got %q", MethodCOD, p.Method)
		}
		count++
	}
	return count, nil
}

// MarshalBSONValue stores the response as {method, <variant>} and refuses to
// write a document whose variant does not match the method tag.
func (p ProviderResponse) MarshalBSONValue() (bsontype.Type, []byte, error) {
	count, err := p.variantSet()
	if err != nil {
		return 0, nil, err
	}
	if count != 1 {
		return 0, nil, fmt.Errorf("provider response must carry exactly one receipt, has %d", count)
	}
	return bson.MarshalValue(providerResponseDoc(p))
}

// UnmarshalBSONValue decodes the tagged document, tolerating null for legacy
// entries written before receipts were recorded.
func (p *ProviderResponse) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*p = ProviderResponse{}
		return nil
	case bsontype.EmbeddedDocument:
		var doc providerResponseDoc
		if err := bson.UnmarshalValue(t, data, &doc); err != nil {
			return err
		}
		decoded := ProviderResponse(doc)
		if _, err := decoded.variantSet(); err != nil {
			return err
		}
		*p = decoded
		return nil
	default:
		return fmt.Errorf("cannot decode %s into ProviderResponse", t)
	}
}

// NewEWalletResponse builds the gcash variant.
func NewEWalletResponse(payerEmail, checkoutURL string) *ProviderResponse {
	return &ProviderResponse{
		Method: MethodGCash,
		EWallet: &EWalletReceipt{
			Channel:     string(MethodGCash),
			PayerEmail:  payerEmail,
			CheckoutURL: checkoutURL,
		},
	}
}

// NewBankResponse builds the bank transfer variant.
func NewBankResponse(bankCode, accountNumber, payerEmail string) *ProviderResponse {
	return &ProviderResponse{
		Method: MethodBank,
		Bank: &BankReceipt{
			BankCode:      bankCode,
			AccountNumber: accountNumber,
			PayerEmail:    payerEmail,
		},
	}
}

// NewCardResponse builds the card variant.
func NewCardResponse(checkoutURL string) *ProviderResponse {
	return &ProviderResponse{
		Method: MethodCard,
		Card:   &CardReceipt{CheckoutURL: checkoutURL},
	}
}

// NewCODResponse builds the cash-on-delivery variant.
func NewCODResponse(note string) *ProviderResponse {
	return &ProviderResponse{
		Method: MethodCOD,
		COD:    &CODReceipt{Note: note},
	}
}
