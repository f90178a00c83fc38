package render

// Built-in themes. Each maps template names ("review", "business_info") to
// token templates. Missing names fall back through the default theme.
func builtinThemes() map[string]map[string]string {
	return map[string]map[string]string{
		"default": {
			"review": `<div class="gmr-review">` +
				`{{author_image_tag}}` +
				`<div class="gmr-review-head">` +
				`<span class="gmr-author">{{author_name}}</span>` +
				`{{rating_block}}{{date_block}}` +
				`</div>` +
				`<div class="gmr-content">{{content}}</div>` +
				`{{helpful_block}}{{owner_block}}` +
				`</div>`,
			"business_info": `<div class="gmr-business">` +
				`<span class="gmr-business-name">{{name}}</span>` +
				`<span class="gmr-stars">{{rating_stars}}</span>` +
				`<span class="gmr-review-count">{{review_count}} reviews</span>` +
				`<span class="gmr-address">{{address}}</span>` +
				`</div>`,
		},
		"modern": {
			"review": `<article class="gmr-review gmr-modern">` +
				`<header>{{author_image_tag}}<h4>{{author_name}}</h4>{{rating_block}}{{date_block}}</header>` +
				`<p>{{content}}</p>` +
				`{{helpful_block}}{{owner_block}}` +
				`</article>`,
		},
		"minimal": {
			"review": `<div class="gmr-review gmr-minimal">` +
				`<span class="gmr-author">{{author_name}}</span> {{rating_stars}}` +
				`<div class="gmr-content">{{content}}</div>` +
				`</div>`,
		},
		"card": {
			"review": `<div class="gmr-review gmr-card-theme">` +
				`<div class="gmr-card-top">{{author_image_tag}}{{rating_block}}</div>` +
				`<div class="gmr-content">{{content}}</div>` +
				`<footer><span class="gmr-author">{{author_name}}</span>{{date_block}}</footer>` +
				`</div>`,
		},
		"compact": {
			"review": `<div class="gmr-review gmr-compact">` +
				`{{rating_stars}} <span class="gmr-author">{{author_name}}</span>: {{content}}` +
				`</div>`,
		},
	}
}
