package vision

// Prompt is the instruction sent with every flyer image. The reply contract
// matches what the flyer service decodes; any dates list the model adds is ignored.
const Prompt = `You read event flyers, mostly written in Spanish, and extract the event details.

Reply with a single JSON object and nothing else, using exactly these keys:
{
  "title": string,
  "description": string,
  "location": string,
  "date": "YYYY-MM-DD" or null,
  "time": string or null,
  "is_recurring": boolean,
  "pattern_description": string or null,
  "weekdays": [string] or null,
  "specific_days": [number] or null,
  "month_start": "YYYY-MM" or null,
  "month_end": "YYYY-MM" or null
}

Rules:
- "date" is the first date the event happens on.
- Weekday names go in "weekdays" in Spanish, e.g. ["viernes", "sábado"].
- A weekday followed by a day number ("viernes 13 y sábado 14") names specific dates:
  set is_recurring to false and put the numbers in "specific_days".
- A bare weekday or a plural ("todos los viernes", "los sábados") repeats:
  set is_recurring to true and list the weekdays.
- A range of days ("del 12 al 18 de marzo") is recurring with every day of the range in "specific_days".
- "month_start" and "month_end" bound recurring events; use the same month when only one is shown.
- Use "mensual" or "cada mes" in pattern_description for monthly events and "temporada" or "gira" for seasons or tours.
- Leave a field null when the flyer does not say.`
