package intent

import (
	"fmt"
	"strings"

	"github.com/mamansante/mamansante-be/internal/extractor"
)

// rule pairs a set of trigger phrases with a responder. Rules run in
// order with first-match-wins semantics, so compound phrases must come
// before their substrings ("alimentation équilibrée" before
// "alimentation"); reordering this table changes behaviour.
type rule struct {
	phrases []string
	respond func(data extractor.UserData) string
}

func fixed(text string) func(extractor.UserData) string {
	return func(extractor.UserData) string { return text }
}

var pregnancyRules = []rule{
	{
		phrases: []string{"symptômes"},
		respond: symptomResponse,
	},
	{
		phrases: []string{"alimentation équilibrée"},
		respond: fixed("Une alimentation équilibrée pendant la grossesse repose sur des repas variés : céréales complètes, légumineuses, fruits et légumes frais, produits laitiers et sources de protéines (poisson bien cuit, viande, œufs). Buvez beaucoup d'eau et limitez le sucre, le sel et les aliments très transformés. L'alcool est à éviter complètement."),
	},
	{
		phrases: []string{"alimentation du bébé"},
		respond: fixed("Jusqu'à 6 mois, le lait maternel ou un lait infantile couvre tous les besoins de votre bébé. À partir de 6 mois, introduisez progressivement des purées de légumes et de fruits en complément du lait, un nouvel aliment à la fois."),
	},
	{
		phrases: []string{"alimentation"},
		respond: fixed("Pendant la grossesse, privilégiez les fruits, les légumes, les féculents complets et les aliments riches en fer et en calcium. Évitez la viande et le poisson crus, les fromages au lait cru et l'alcool. Parlez de vos besoins en fer et en acide folique lors de votre prochaine visite prénatale."),
	},
	{
		phrases: []string{"exercices"},
		respond: fixed("Une activité physique douce est bénéfique pendant la grossesse : marche, natation, yoga prénatal, environ 30 minutes par jour si votre grossesse se déroule normalement. Évitez les sports à risque de chute ou de choc, et arrêtez-vous en cas de douleur, d'essoufflement inhabituel ou de contractions."),
	},
	{
		phrases: []string{"tests de dépistage"},
		respond: fixed("Plusieurs tests de dépistage sont proposés pendant la grossesse : groupe sanguin, anémie, VIH, hépatite B, syphilis, diabète gestationnel, ainsi que les échographies de suivi. Ils sont importants pour votre santé et celle de votre bébé ; votre centre de santé vous indiquera le calendrier à suivre."),
	},
	{
		phrases: []string{"préparations pour l'accouchement"},
		respond: fixed("Pour préparer l'accouchement : identifiez à l'avance la structure de santé où vous accoucherez, préparez les documents et le nécessaire pour vous et le bébé, prévoyez un moyen de transport, et repérez les signes du travail (contractions régulières, perte des eaux). Les séances de préparation à la naissance sont recommandées à partir du troisième trimestre."),
	},
	{
		phrases: []string{"soins prénatals", "visites prénatales"},
		respond: fixed("Les visites prénatales permettent de suivre votre santé et la croissance de votre bébé. Au moins 4 consultations sont recommandées pendant la grossesse, davantage si votre suivi le demande. N'attendez pas d'être malade pour consulter : chaque visite compte."),
	},
	{
		phrases: []string{"soins postnataux"},
		respond: fixed("Après l'accouchement, des consultations postnatales sont recommandées dans les premiers jours puis durant les 6 semaines qui suivent. Elles permettent de surveiller votre récupération, la cicatrisation, l'allaitement et la santé du nouveau-né. Consultez sans attendre en cas de fièvre, de saignements abondants ou de douleurs inhabituelles."),
	},
	{
		phrases: []string{"soins du nouveau-né"},
		respond: fixed("Les soins essentiels du nouveau-né : garder le bébé au chaud (peau à peau les premiers jours), soigner le cordon avec des mains propres et le laisser sécher à l'air, allaiter à la demande, et respecter le calendrier de vaccination. Consultez rapidement si le bébé refuse de téter, a de la fièvre ou respire difficilement."),
	},
	{
		phrases: []string{"allaitement"},
		respond: fixed("L'allaitement maternel exclusif est recommandé jusqu'à 6 mois : il protège votre bébé des infections et favorise sa croissance. Allaitez à la demande, jour et nuit, et veillez à une bonne prise du sein pour éviter les crevasses. En cas de douleur persistante ou d'engorgement, demandez conseil à une sage-femme."),
	},
	{
		phrases: []string{"reprise après l'accouchement"},
		respond: fixed("La récupération après l'accouchement demande du temps : reposez-vous autant que possible, mangez équilibré, buvez beaucoup d'eau et reprenez l'activité physique en douceur après l'accord de votre sage-femme ou médecin. Parlez à un professionnel si vous vous sentez durablement triste ou épuisée, c'est fréquent et cela se soigne."),
	},
	{
		phrases: []string{"nutrition des enfants"},
		respond: fixed("Pour un enfant, proposez chaque jour des repas variés : céréales ou tubercules, légumineuses, fruits, légumes et une source de protéines. Entre 6 mois et 2 ans, l'enfant doit manger plusieurs fois par jour en plus du lait. Surveillez sa croissance lors des visites de suivi."),
	},
	{
		phrases: []string{"aliments solides"},
		respond: fixed("Les aliments solides s'introduisent à partir de 6 mois, en complément du lait : commencez par des purées lisses (légumes, fruits, céréales), un aliment nouveau à la fois pendant 2 à 3 jours pour repérer une éventuelle intolérance, puis épaississez progressivement les textures."),
	},
	{
		phrases: []string{"signes de danger"},
		respond: fixed("Consultez en urgence devant ces signes de danger : saignements, fièvre élevée, maux de tête intenses avec troubles de la vue, douleurs abdominales fortes, diminution des mouvements du bébé, ou convulsions. Chez le nouveau-né : refus de téter, fièvre, respiration rapide ou difficile. N'attendez pas, rendez-vous au centre de santé le plus proche."),
	},
}

// symptomResponse interpolates the extracted name and week count when a
// week was extracted, otherwise stays generic.
func symptomResponse(data extractor.UserData) string {
	if data.Weeks != nil {
		name := data.Name
		if name == "" {
			name = "madame"
		}
		return fmt.Sprintf("Merci %s. À %d semaines de grossesse, certains symptômes (nausées, fatigue, douleurs de dos) sont fréquents. Décrivez-moi précisément ce que vous ressentez ; en cas de saignements, de fièvre ou de douleurs fortes, consultez immédiatement un professionnel de santé.", name, *data.Weeks)
	}
	return "Les symptômes de la grossesse varient selon le stade : nausées et fatigue au début, douleurs de dos et jambes lourdes ensuite. Dites-moi où vous en êtes et ce que vous ressentez. En cas de saignements, de fièvre ou de douleurs fortes, consultez immédiatement un professionnel de santé."
}

// respondPregnancyInfo walks the ordered topic cascade.
func respondPregnancyInfo(lowered string, data extractor.UserData) string {
	for _, r := range pregnancyRules {
		for _, phrase := range r.phrases {
			if strings.Contains(lowered, phrase) {
				return r.respond(data)
			}
		}
	}
	return responseTopicPrompt
}

// Trimester advice, selected on the extracted week count with 0 as the
// default when no count was extracted.
const (
	responseFirstTrimester  = "Au premier trimestre (jusqu'à 12 semaines), le bébé se forme : prenez de l'acide folique, commencez le suivi prénatal dès maintenant, reposez-vous et fractionnez vos repas si vous avez des nausées. Évitez alcool, tabac et automédication."
	responseSecondTrimester = "Au deuxième trimestre (13 à 26 semaines), vous sentirez bientôt votre bébé bouger. C'est le moment de l'échographie de suivi, de surveiller votre prise de poids et de poursuivre les visites prénatales. Une activité physique douce reste recommandée."
	responseThirdTrimester  = "Au troisième trimestre (à partir de 27 semaines), préparez l'accouchement : rapprochez les visites prénatales, surveillez les mouvements du bébé chaque jour, et apprenez à reconnaître les signes du travail. Consultez en urgence en cas de saignements ou de maux de tête intenses."
)

const (
	responseNewborn = "Pour un nouveau-né : allaitement à la demande, chaleur (peau à peau), soins du cordon avec des mains propres, et premières vaccinations dès la naissance. Surveillez la prise de poids lors des visites de suivi."
	responseBaby    = "Pour un bébé de moins d'un an : lait maternel exclusif jusqu'à 6 mois puis diversification progressive, vaccinations à jour, et suivi régulier de la croissance. Couchez bébé sur le dos pour dormir."
	responseChild   = "Pour un enfant : repas variés et réguliers, rappels de vaccination, surveillance de la croissance, et consultation rapide en cas de fièvre persistante, de diarrhée ou de refus de s'alimenter."
)

// respondPersonalization is a strict priority chain: a "trimestre" match
// returns immediately, then the age keywords are tried in order.
func respondPersonalization(lowered string, data extractor.UserData) string {
	if strings.Contains(lowered, "trimestre") {
		weeks := 0
		if data.Weeks != nil {
			weeks = *data.Weeks
		}
		switch {
		case weeks <= 12:
			return responseFirstTrimester
		case weeks <= 26:
			return responseSecondTrimester
		default:
			return responseThirdTrimester
		}
	}

	for _, r := range ageRules {
		if strings.Contains(lowered, r.phrase) {
			return r.text
		}
	}
	return responseAgePrompt
}

var ageRules = []struct {
	phrase string
	text   string
}{
	{"nouveau-né", responseNewborn},
	{"bébé", responseBaby},
	{"enfant", responseChild},
}

const (
	// Returned when neither keyword set matches.
	responseClarification = "Je ne suis pas sûre de comprendre votre question. Je peux vous renseigner sur la grossesse (symptômes, alimentation, exercices, tests de dépistage, préparation à l'accouchement, soins prénatals et postnataux), l'allaitement, les soins du nouveau-né, la nutrition des enfants et les signes de danger. Pouvez-vous reformuler ?"

	// Returned when a Set-A keyword matched but no cascade phrase did.
	responseTopicPrompt = "Je peux vous aider sur ce sujet. De quoi avez-vous besoin exactement : symptômes, alimentation, exercices, tests de dépistage, préparation à l'accouchement, soins prénatals ou postnataux, allaitement, ou soins du nouveau-né ?"

	// Returned when a Set-B keyword matched but no age keyword did.
	responseAgePrompt = "Pour vous donner un conseil adapté, précisez l'âge de votre enfant ou votre stade de grossesse (par exemple : \"mon bébé a 8 mois\" ou \"je suis enceinte de 20 semaines\")."
)
