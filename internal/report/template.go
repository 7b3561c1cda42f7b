package report

// reportTemplate is the plain-text report layout. The bindings are the
// JSON form of an AnalysisResult, so the keys here match the API contract.
const reportTemplate = `================================================================================
SALON REPEAT-VISIT ANALYSIS REPORT
================================================================================

[Conditions]
New customer window:   {{ parameters.new_customer_start }} - {{ parameters.new_customer_end }}
Repeat cutoff date:    {{ parameters.repeat_analysis_end }}
Repeat threshold:      {{ parameters.min_repeat_count }}+ visits
{% if empty %}
RESULT: {{ parameters.error }}

No customers had their first-ever visit inside the window. Widen the
window or check the loaded files before re-running.
{% else %}
[Basic statistics]
New customers:                     {{ basic_stats.total_new_customers }}
{{ basic_stats.min_repeat_count }}+ repeaters:                      {{ basic_stats.x_plus_repeaters }} ({{ basic_stats.x_plus_rate | pct1 }}%)
First-repeat rate:                 {{ basic_stats.first_repeat_rate | pct1 }}%
Average repeats (all customers):   {{ basic_stats.avg_repeat_all | pct1 }}
Average repeats (repeaters only):  {{ basic_stats.avg_repeat_repeaters | pct1 }}

[Retention funnel]
{% for stage in funnel_analysis.stages -%}
  {{ stage.name }}: {{ stage.count }} ({{ stage.share | pct1 }}% of cohort{% unless forloop.first %}, continuation {{ stage.continuation_rate | pct1 }}%{% endunless %})
{% endfor %}
Repeat-count distribution:
{% for bin in funnel_analysis.repeat_distribution -%}
  {{ bin.repeat_count }} repeats: {{ bin.customers }} customers (cumulative {{ bin.cumulative_pct | pct1 }}%)
{% endfor %}
[Stylist breakdown] (groups of {{ stylist_analysis.min_customers_filter }}+ customers)
Top stylist: {{ stylist_analysis.top.name }} ({{ stylist_analysis.top.rate | pct1 }}%)
Cohort-wide {{ basic_stats.min_repeat_count }}+ repeaters: {{ stylist_analysis.total_x_plus_repeaters }}
{% for s in stylist_analysis.stats limit: 10 -%}
  {{ s.name }}: {{ s.x_plus_rate | pct1 }}% ({{ s.x_plus_repeaters }}/{{ s.total_customers }})
{% endfor %}
[Coupon breakdown] (groups of {{ coupon_analysis.min_customers_filter }}+ customers)
Best coupon: {{ coupon_analysis.top.name }} ({{ coupon_analysis.top.rate | pct1 }}%, avg {{ coupon_analysis.top.avg_repeat | pct1 }} repeats)
{% for c in coupon_analysis.stats limit: 10 -%}
  {{ c.name }}: {{ c.x_plus_rate | pct1 }}% (avg {{ c.avg_repeat_repeaters | pct1 }} repeats)
{% endfor %}
[Targets]
First repeat:  actual {{ target_comparison.actual_rates.first_repeat | pct1 }}% vs target {{ target_comparison.target_rates.first_repeat | pct1 }}% (achievement {{ target_comparison.achievement_rates.first_repeat | pct1 }}%, {{ target_comparison.required_additional.first_repeat.additional_needed }} more needed)
Second repeat: actual {{ target_comparison.actual_rates.second_repeat | pct1 }}% vs target {{ target_comparison.target_rates.second_repeat | pct1 }}% (achievement {{ target_comparison.achievement_rates.second_repeat | pct1 }}%, {{ target_comparison.required_additional.second_repeat.additional_needed }} more needed)
Third repeat:  actual {{ target_comparison.actual_rates.third_repeat | pct1 }}% vs target {{ target_comparison.target_rates.third_repeat | pct1 }}% (achievement {{ target_comparison.achievement_rates.third_repeat | pct1 }}%, {{ target_comparison.required_additional.third_repeat.additional_needed }} more needed)
Overall achievement: {{ target_comparison.overall_achievement | pct1 }}%

[Time to first repeat]
Average {{ period_analysis.avg_days | pct1 }} days, median {{ period_analysis.median_days | pct1 }}, range {{ period_analysis.min_days }}-{{ period_analysis.max_days }}
{% for band in period_analysis.period_distribution -%}
  {{ band.label }} days: {{ band.count }} ({{ band.percentage | pct1 }}%)
{% endfor %}
[Monthly trend]
{% for m in monthly_analysis.months -%}
  {{ m.month }}: {{ m.new_customers }} new, {{ m.repeaters }} repeated ({{ m.repeat_rate | pct1 }}%)
{% endfor %}
{%- endif %}
================================================================================
`
