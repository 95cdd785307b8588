package knowledge

import "supportpilot/internal/model"

// seedSnippets is the initial company knowledge set, embedded once at
// first startup.
var seedSnippets = []model.Snippet{
	{
		ID:       "shipping_001",
		Content:  "We offer free shipping on all orders over $50. Standard shipping takes 3-5 business days within the continental US. Express shipping is available for $15 and takes 1-2 business days. International shipping is available to most countries and takes 7-14 business days.",
		Category: "shipping",
		Topic:    "shipping_policy",
		Priority: "high",
	},
	{
		ID:       "shipping_002",
		Content:  "You can track your order using the tracking number provided in your shipping confirmation email. Visit our website and enter your tracking number in the order status page.",
		Category: "shipping",
		Topic:    "tracking",
		Priority: "medium",
	},
	{
		ID:       "returns_001",
		Content:  "We accept returns within 30 days of purchase for a full refund. Items must be in original condition with tags attached. Return shipping is free for defective items, otherwise customer pays return shipping costs.",
		Category: "returns",
		Topic:    "return_policy",
		Priority: "high",
	},
	{
		ID:       "returns_002",
		Content:  "To initiate a return, log into your account and select the order you want to return. You can also contact customer service with your order number. We'll provide a prepaid return label for defective items.",
		Category: "returns",
		Topic:    "return_process",
		Priority: "high",
	},
	{
		ID:       "warranty_001",
		Content:  "All our products come with a 1-year manufacturer warranty covering defects in materials and workmanship. Electronics have a 2-year warranty. Warranty does not cover normal wear and tear or damage from misuse.",
		Category: "warranty",
		Topic:    "warranty_terms",
		Priority: "medium",
	},
	{
		ID:       "payment_001",
		Content:  "We accept all major credit cards (Visa, MasterCard, American Express, Discover), PayPal, Apple Pay, Google Pay, and bank transfers. All payments are processed securely using SSL encryption.",
		Category: "payment",
		Topic:    "payment_methods",
		Priority: "medium",
	},
	{
		ID:       "payment_002",
		Content:  "If your payment fails, please check that your card details are correct and you have sufficient funds. Contact your bank if the issue persists. You can also try a different payment method.",
		Category: "payment",
		Topic:    "payment_issues",
		Priority: "medium",
	},
	{
		ID:       "support_001",
		Content:  "Our customer support team is available Monday through Friday, 9 AM to 5 PM EST. You can reach us via email at support@company.com or phone at 1-800-555-0123. Live chat is available on our website during business hours.",
		Category: "support",
		Topic:    "contact_info",
		Priority: "high",
	},
	{
		ID:       "products_001",
		Content:  "We offer a wide range of high-quality products including electronics, home goods, clothing, and accessories. All products go through rigorous quality testing before shipping.",
		Category: "products",
		Topic:    "product_info",
		Priority: "low",
	},
	{
		ID:       "account_001",
		Content:  "You can create an account on our website to track orders, save favorites, and speed up checkout. Account creation is free and your information is kept secure and private.",
		Category: "account",
		Topic:    "account_management",
		Priority: "medium",
	},
}
